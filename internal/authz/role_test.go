package authz

import "testing"

func TestNormalizeRole_CaseInsensitive(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":     RoleAdmin,
		"admin":     RoleAdmin,
		"Admin":     RoleAdmin,
		"  aDmIn  ": RoleAdmin,
		"SUBADMIN":  RoleSubadmin,
		"subadmin":  RoleSubadmin,
		"subAdmin":  RoleSubadmin,
		"USER":      RoleUser,
		"user":      RoleUser,
		"User":      RoleUser,
	}
	for in, want := range cases {
		if got := NormalizeRole(in); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeRole_DefaultsToUser(t *testing.T) {
	// Todo lo imparseable degrada a privilegio mínimo, nunca a máximo.
	for _, in := range []string{"", "bogus", "root", "ADMINX", "042", "admín", "\t\n"} {
		if got := NormalizeRole(in); got != RoleUser {
			t.Fatalf("NormalizeRole(%q) = %q, want USER", in, got)
		}
	}
}

func TestNormalizeRole_Total(t *testing.T) {
	// Siempre retorna uno de los tres valores del vocabulario.
	for _, in := range []string{"", "ADMIN", "zzz", "subadmin", "USER  "} {
		got := NormalizeRole(in)
		if !ValidRole(got) {
			t.Fatalf("NormalizeRole(%q) = %q fuera del vocabulario", in, got)
		}
	}
}

func TestNormalizeRoleAny(t *testing.T) {
	cases := []struct {
		in   any
		want Role
	}{
		{nil, RoleUser},
		{42, RoleUser},
		{3.14, RoleUser},
		{true, RoleUser},
		{[]string{"ADMIN"}, RoleUser},
		{"ADMIN", RoleAdmin},
		{"subadmin", RoleSubadmin},
	}
	for _, c := range cases {
		if got := NormalizeRoleAny(c.in); got != c.want {
			t.Fatalf("NormalizeRoleAny(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
