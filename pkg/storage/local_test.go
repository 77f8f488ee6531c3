package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLocal_PutAndRead(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	wav := []byte("RIFF....WAVE")
	if err := Put(ctx, s, "mp-149/chord.wav", bytes.NewReader(wav)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	r, err := s.Read(ctx, "mp-149/chord.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, wav) {
		t.Fatalf("got %q, want %q", got, wav)
	}

	if _, err := os.Stat(filepath.Join(s.Root(), "mp-149", "chord.wav")); err != nil {
		t.Errorf("artifact not at expected path: %v", err)
	}
}

func TestLocal_ReadMissing(t *testing.T) {
	s := newTestLocal(t)
	_, err := s.Read(context.Background(), "dos.png")
	if !os.IsNotExist(err) {
		t.Fatalf("Read() error = %v, want not-exist", err)
	}
}

func TestLocal_ExistsAndDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "dos.png")
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v; want false, nil", ok, err)
	}
	if err := Put(ctx, s, "dos.png", strings.NewReader("png")); err != nil {
		t.Fatal(err)
	}
	ok, err = s.Exists(ctx, "dos.png")
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v; want true, nil", ok, err)
	}

	if err := s.Delete(ctx, "dos.png"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "dos.png"); err != nil {
		t.Fatalf("second Delete() error = %v, want nil", err)
	}
	if ok, _ := s.Exists(ctx, "dos.png"); ok {
		t.Error("artifact still exists after Delete")
	}
}

func TestLocal_WriteTruncates(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	if err := Put(ctx, s, "f", strings.NewReader("a long first render")); err != nil {
		t.Fatal(err)
	}
	if err := Put(ctx, s, "f", strings.NewReader("short")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.Path("f"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "short" {
		t.Errorf("got %q, want %q", data, "short")
	}
}

func TestOpen_Local(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static")
	fs, err := Open(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	l, ok := fs.(*Local)
	if !ok {
		t.Fatalf("Open() = %T, want *Local", fs)
	}
	if l.Root() != dir {
		t.Errorf("Root() = %q, want %q", l.Root(), dir)
	}
}

func TestOpen_S3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIATEST")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_ENDPOINT_URL", "http://127.0.0.1:9000")

	fs, err := Open(context.Background(), "s3://renders/phonons/")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := fs.(*S3Store)
	if !ok {
		t.Fatalf("Open() = %T, want *S3Store", fs)
	}
	if s.bucket != "renders" || s.prefix != "phonons" {
		t.Errorf("bucket=%q prefix=%q", s.bucket, s.prefix)
	}

	if _, err := Open(context.Background(), "s3:///nobucket"); err == nil {
		t.Error("expected error for missing bucket")
	}
}

func TestOpen_S3MissingCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := Open(context.Background(), "s3://renders"); err == nil {
		t.Error("expected error without credentials")
	}
}
