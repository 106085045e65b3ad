package main

import (
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("stdin gone")
}

func TestConfirmDestroy(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  bool
	}{
		{name: "Yes", input: "y\n", want: true},
		{name: "YesWord", input: "YES\n", want: true},
		{name: "No", input: "n\n", want: false},
		{name: "EmptyLine", input: "\n", want: false},
		{name: "EOFWithoutNewline", input: "y", want: true},
		{name: "ImmediateEOF", input: "", want: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := confirmDestroy(strings.NewReader(tc.input)); got != tc.want {
				t.Errorf("confirmDestroy(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestConfirmDestroyReadFailureIsNo(t *testing.T) {
	if confirmDestroy(failingReader{}) {
		t.Error("a failed read must not confirm destruction")
	}
}
