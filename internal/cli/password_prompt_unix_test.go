//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"os"
	"testing"
)

func TestReadPasswordAcceptsPipedInput(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = reader.Close()
	})

	if _, err := writer.WriteString("Sup3rSecret\r\nignored\n"); err != nil {
		t.Fatalf("write pipe: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	password, err := readPassword(reader)
	if err != nil {
		t.Fatalf("readPassword() unexpected error: %v", err)
	}
	if password != "Sup3rSecret" {
		t.Fatalf("expected trimmed first line, got %q", password)
	}
}

func TestReadPasswordRejectsMissingStdin(t *testing.T) {
	if _, err := readPassword(nil); err == nil {
		t.Fatal("expected error for missing stdin")
	}
}
