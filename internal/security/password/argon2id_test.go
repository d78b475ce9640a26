package password

import "testing"

func TestHashVerify_Roundtrip(t *testing.T) {
	phc, err := Hash(Default, "s3creta!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("s3creta!", phc) {
		t.Fatal("password correcta debe verificar")
	}
	if Verify("otra", phc) {
		t.Fatal("password incorrecta no debe verificar")
	}
}

func TestHash_EmptyRejected(t *testing.T) {
	if _, err := Hash(Default, ""); err == nil {
		t.Fatal("password vacía debe fallar")
	}
}

func TestVerify_MalformedPHC(t *testing.T) {
	for _, phc := range []string{
		"",
		"$argon2id$v=19$m=1,t=1,p=1$salt", // faltan partes
		"$bcrypt$cosa",
		"$argon2id$v=18$m=1,t=1,p=1$AAAA$AAAA", // versión incorrecta
	} {
		if Verify("x", phc) {
			t.Fatalf("PHC malformado no debe verificar: %q", phc)
		}
	}
}
