package venv

import "testing"

func TestDecomposeDependency(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		pkg     string
		version string
		ok      bool
	}{
		{
			name: "pypi pin",
			line: "requests==2.28.1",
			pkg:  "requests", version: "2.28.1", ok: true,
		},
		{
			name: "pypi pin with extras",
			line: "uvicorn[standard]==0.23.2",
			pkg:  "uvicorn[standard]", version: "0.23.2", ok: true,
		},
		{
			name: "editable git with ref",
			line: "-e git+https://github.com/org/repo.git@abc123",
			pkg:  "git+https://github.com/org/repo.git", version: "abc123", ok: true,
		},
		{
			name: "editable git with credentials",
			line: "-e git+https://user@github.com/org/repo.git@v1.2.0",
			pkg:  "git+https://user@github.com/org/repo.git", version: "v1.2.0", ok: true,
		},
		{
			name: "editable git without ref",
			line: "-e git+ssh://host/repo.git",
			ok:   false,
		},
		{
			name: "editable local path",
			line: "-e /home/user/project",
			pkg:  "/home/user/project", version: "", ok: true,
		},
		{
			name: "bare package name",
			line: "numpy",
			pkg:  "numpy", version: "", ok: true,
		},
		{
			name: "surrounding whitespace",
			line: "  flask==2.3.2  ",
			pkg:  "flask", version: "2.3.2", ok: true,
		},
		{
			name: "empty line",
			line: "",
			ok:   false,
		},
		{
			name: "separator with no package",
			line: "==1.0",
			ok:   false,
		},
		{
			name: "bare editable marker",
			line: "-e ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, version, ok := DecomposeDependency(tt.line)
			if ok != tt.ok {
				t.Fatalf("DecomposeDependency(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if !ok {
				return
			}
			if pkg != tt.pkg {
				t.Errorf("package = %q, want %q", pkg, tt.pkg)
			}
			if version != tt.version {
				t.Errorf("version = %q, want %q", version, tt.version)
			}
		})
	}
}
