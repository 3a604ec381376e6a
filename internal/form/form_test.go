package form

import "testing"

func TestLoginValidate(t *testing.T) {
	tests := []struct {
		name     string
		in       Login
		field    string
		wantMsg  string
		wantPass bool
	}{
		{"valid", Login{Email: "a@b.com", Password: "secret1"}, "", "", true},
		{"empty email", Login{Password: "secret1"}, FieldEmail, "Required", false},
		{"malformed email", Login{Email: "a@b", Password: "secret1"}, FieldEmail, "Invalid email address", false},
		{"spaces in email", Login{Email: "a @b.com", Password: "secret1"}, FieldEmail, "Invalid email address", false},
		{"short password", Login{Email: "a@b.com", Password: "12345"}, FieldPassword, "Password must be at least 6 characters", false},
		{"empty password", Login{Email: "a@b.com"}, FieldPassword, "Required", false},
		{"six runes", Login{Email: "a@b.com", Password: "ñññññß"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.in.Validate()
			if errs.OK() != tt.wantPass {
				t.Fatalf("OK() = %v, want %v (errs %v)", errs.OK(), tt.wantPass, errs)
			}
			if tt.field != "" && errs[tt.field] != tt.wantMsg {
				t.Errorf("errs[%s] = %q, want %q", tt.field, errs[tt.field], tt.wantMsg)
			}
		})
	}
}

func TestSignupRequiresName(t *testing.T) {
	errs := Signup{Name: "   ", Email: "a@b.com", Password: "secret1"}.Validate()
	if errs[FieldName] != "Name is required" {
		t.Errorf("errs[name] = %q", errs[FieldName])
	}
	if len(errs) != 1 {
		t.Errorf("only the name should fail, got %v", errs)
	}
}

func TestSignupReportsEveryField(t *testing.T) {
	errs := Signup{}.Validate()
	for _, f := range []string{FieldName, FieldEmail, FieldPassword} {
		if _, ok := errs[f]; !ok {
			t.Errorf("missing error for %s", f)
		}
	}
}

func TestTaskValidateTrims(t *testing.T) {
	if errs := (Task{Title: "  \t "}).Validate(); errs[FieldTitle] != "Task title is required" {
		t.Errorf("blank title should fail, got %v", errs)
	}

	in := Task{Title: "  Ship it ", Description: " soon  "}
	if !in.Validate().OK() {
		t.Fatal("padded title should pass")
	}
	got := in.Normalize()
	if got.Title != "Ship it" || got.Description != "soon" {
		t.Errorf("Normalize = %+v", got)
	}
}

func TestErrorsAddKeepsFirst(t *testing.T) {
	errs := Errors{}
	errs.Add(FieldTitle, "first")
	errs.Add(FieldTitle, "second")
	if errs[FieldTitle] != "first" {
		t.Errorf("got %q, want first", errs[FieldTitle])
	}
	if errs.Err() == nil {
		t.Error("Err should be non-nil with failures")
	}
	if (Errors{}).Err() != nil {
		t.Error("Err should be nil without failures")
	}
	if got := (Errors{"b": "2", "a": "1"}).Error(); got != "a: 1; b: 2" {
		t.Errorf("Error() = %q", got)
	}
}
