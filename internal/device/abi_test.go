package device

import (
	"reflect"
	"runtime"
	"testing"
)

func TestABIsForArch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goarch string
		want   []string
	}{
		{"arm64", []string{"arm64-v8a", "armeabi-v7a"}},
		{"arm", []string{"armeabi-v7a"}},
		{"amd64", []string{"x86_64", "x86"}},
		{"386", []string{"x86"}},
		{"riscv64", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.goarch, func(t *testing.T) {
			t.Parallel()
			if got := ABIsForArch(tt.goarch); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ABIsForArch(%q) = %v, want %v", tt.goarch, got, tt.want)
			}
		})
	}
}

func TestParseABIList(t *testing.T) {
	t.Parallel()

	got := ParseABIList(" ARM64-v8a, ,armeabi-v7a,arm64-v8a ")
	want := []string{"arm64-v8a", "armeabi-v7a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseABIList: got %v want %v", got, want)
	}
	if got := ParseABIList(""); got != nil {
		t.Fatalf("empty input: got %v", got)
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	if got := Resolve("x86", []string{"arm64-v8a"}); !reflect.DeepEqual(got, []string{"x86"}) {
		t.Fatalf("flag should win: got %v", got)
	}
	if got := Resolve("", []string{"arm64-v8a"}); !reflect.DeepEqual(got, []string{"arm64-v8a"}) {
		t.Fatalf("config should win over host: got %v", got)
	}
	if got := Resolve(" ", nil); !reflect.DeepEqual(got, ABIsForArch(runtime.GOARCH)) {
		t.Fatalf("host default: got %v", got)
	}
}
