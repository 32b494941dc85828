package utils

import "testing"

func TestGeneratePublicToken(t *testing.T) {
	a, err := GeneratePublicToken()
	if err != nil {
		t.Fatalf("geração de token deveria funcionar: %v", err)
	}
	b, err := GeneratePublicToken()
	if err != nil {
		t.Fatalf("geração de token deveria funcionar: %v", err)
	}
	if a == b {
		t.Error("dois tokens gerados não deveriam coincidir")
	}
	if len(a) < 40 {
		t.Errorf("token curto demais: %d caracteres", len(a))
	}
}

func TestGenerateRandomOTP(t *testing.T) {
	otp, err := GenerateRandomOTP()
	if err != nil {
		t.Fatalf("geração de OTP deveria funcionar: %v", err)
	}
	if len(otp) != 6 {
		t.Errorf("OTP deveria ter 6 dígitos, veio %q", otp)
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Errorf("OTP deveria ser numérico, veio %q", otp)
		}
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	password, err := GenerateRandomPassword(12)
	if err != nil {
		t.Fatalf("geração de senha deveria funcionar: %v", err)
	}
	if len([]rune(password)) != 12 {
		t.Errorf("senha deveria ter 12 caracteres, veio %d", len(password))
	}
}
