package main

import "testing"

func TestCheckPath(t *testing.T) {
	valid := []string{"foo.h", "foo.cpp", "dir/foo.h", "a.b.cpp"}
	for _, path := range valid {
		if err := checkPath(path); err != nil {
			t.Errorf("checkPath(%q) = %v, want nil", path, err)
		}
	}

	invalid := []string{"foo.c", "foo.hpp", "foo.H", "foo.CPP", "foo", "foo.txt"}
	for _, path := range invalid {
		if err := checkPath(path); err == nil {
			t.Errorf("checkPath(%q) = nil, want error", path)
		}
	}
}

func TestParseDefine(t *testing.T) {
	testCases := []struct {
		arg   string
		name  string
		value string
	}{
		{"APPLE=8", "APPLE", "8"},
		{"APPLE", "APPLE", "1"},
		{"APPLE=", "APPLE", ""},
		{"A=b=c", "A", "b=c"},
	}
	for _, tc := range testCases {
		name, value := parseDefine(tc.arg)
		if name != tc.name || value != tc.value {
			t.Errorf("parseDefine(%q) = (%q, %q), want (%q, %q)",
				tc.arg, name, value, tc.name, tc.value)
		}
	}
}
