package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/idresign/internal/audit"
	"github.com/PolarWolf314/idresign/internal/configs"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/saves"
)

const (
	oldID     = "76561198000000001"
	newID     = "76561198000000002"
	testTitle = "SUKHOTHAI"
)

// useTempSettings points configs.Settings at a fresh directory so audit
// entries do not touch the real home directory.
func useTempSettings(t *testing.T) {
	t.Helper()
	tempDir := t.TempDir()
	original := configs.Settings
	configs.Settings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "config"),
		UserDataPath:    filepath.Join(tempDir, "data"),
	}
	t.Cleanup(func() { configs.Settings = original })
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// writeEncrypted encrypts plaintext for id under the file's base name.
func writeEncrypted(t *testing.T, path, id string, plaintext []byte) {
	t.Helper()
	blob, err := saves.Encrypt(plaintext, filepath.Base(path), testTitle, id)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	writeFile(t, path, blob)
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)
}

func TestProcessResignEndToEnd(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "saves")
	output := filepath.Join(tempDir, "saves_resigned")
	plaintext := []byte("hello")

	writeEncrypted(t, filepath.Join(input, "GAME-AUTOSAVE1", "slot0.bin"), oldID, plaintext)

	result, err := Process(context.Background(), Job{
		Mode:        saves.ModeResign,
		InputRoot:   input,
		OutputRoot:  output,
		TitleCode:   testTitle,
		OldIdentity: oldID,
		NewIdentity: newID,
		Now:         fixedNow,
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.Message != "Successfully resigned 1 files" {
		t.Errorf("Unexpected message: %q", result.Message)
	}

	outPath := filepath.Join(output, "GAME-AUTOSAVE1", "slot0.bin")
	blob, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Expected mirrored output at %s: %v", outPath, err)
	}

	got, err := saves.Decrypt(blob, "slot0.bin", testTitle, newID)
	if err != nil {
		t.Fatalf("Output should decrypt under the new identity: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Expected %q, got %q", plaintext, got)
	}
	if _, err := saves.Decrypt(blob, "slot0.bin", testTitle, oldID); !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Errorf("Output should not decrypt under the old identity, got %v", err)
	}

	summary, err := os.ReadFile(filepath.Join(output, SummaryFileName))
	if err != nil {
		t.Fatalf("Expected INFO.txt: %v", err)
	}
	want := "Processing completed at: 2025-03-14 15:09:26\n\n" +
		"Resigned 1 files from SteamID " + oldID + " to SteamID " + newID + "\n\n" +
		"Resigning slot0.bin...\n"
	if string(summary) != want {
		t.Errorf("Unexpected INFO.txt:\n%s\nwant:\n%s", summary, want)
	}
	if result.SummaryPath != filepath.Join(output, SummaryFileName) {
		t.Errorf("Unexpected summary path %s", result.SummaryPath)
	}
}

func TestProcessResignGameAutosave(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "GAME-AUTOSAVE1")
	writeEncrypted(t, filepath.Join(input, "slot0.bin"), oldID, []byte("hello"))

	output := DefaultOutputRoot(saves.ModeResign, input, "")
	if want := filepath.Join(tempDir, "GAME-AUTOSAVE1_resigned"); output != want {
		t.Fatalf("Expected default output %s, got %s", want, output)
	}

	result, err := Process(context.Background(), Job{
		Mode:        saves.ModeResign,
		InputRoot:   input,
		OutputRoot:  output,
		TitleCode:   testTitle,
		OldIdentity: oldID,
		NewIdentity: newID,
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Message != "Successfully resigned 1 files" {
		t.Errorf("Unexpected message: %q", result.Message)
	}

	blob, err := os.ReadFile(filepath.Join(output, "slot0.bin"))
	if err != nil {
		t.Fatalf("Expected GAME-AUTOSAVE1_resigned/slot0.bin: %v", err)
	}
	got, err := saves.Decrypt(blob, "slot0.bin", testTitle, newID)
	if err != nil {
		t.Fatalf("Output should decrypt under the new identity: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Expected %q, got %q", "hello", got)
	}
}

func TestProcessStopsAtFirstFailure(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in")
	output := filepath.Join(tempDir, "out")

	writeEncrypted(t, filepath.Join(input, "a.bin"), oldID, []byte("first"))
	writeFile(t, filepath.Join(input, "b.bin"), bytes.Repeat([]byte{0x42}, 40))
	writeEncrypted(t, filepath.Join(input, "c.bin"), oldID, []byte("third"))

	result, err := Process(context.Background(), Job{
		Mode:       saves.ModeDecrypt,
		InputRoot:  input,
		OutputRoot: output,
		TitleCode:  testTitle,
		Identity:   oldID,
	})

	var fileErr *kerrors.FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("Expected FileError, got %v", err)
	}
	if fileErr.File != "b.bin" {
		t.Errorf("Expected failure on b.bin, got %s", fileErr.File)
	}
	if !errors.Is(err, kerrors.ErrAuthenticationFailed) {
		t.Errorf("Expected ErrAuthenticationFailed, got %v", err)
	}

	got, err := os.ReadFile(filepath.Join(output, "a.bin"))
	if err != nil {
		t.Fatalf("Output of the first file should be kept: %v", err)
	}
	if string(got) != "first" {
		t.Errorf("Unexpected first output %q", got)
	}
	if _, err := os.Stat(filepath.Join(output, "c.bin")); !os.IsNotExist(err) {
		t.Error("Third file should not have been processed")
	}
	if _, err := os.Stat(filepath.Join(output, SummaryFileName)); !os.IsNotExist(err) {
		t.Error("INFO.txt should not be written for a failed run")
	}
	if result == nil || len(result.Written) != 1 {
		t.Errorf("Expected one written file in partial result, got %+v", result)
	}
}

func TestProcessMalformedInput(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in")
	writeFile(t, filepath.Join(input, "short.dat"), []byte("0123456789"))

	_, err := Process(context.Background(), Job{
		Mode:       saves.ModeDecrypt,
		InputRoot:  input,
		OutputRoot: filepath.Join(tempDir, "out"),
		TitleCode:  testTitle,
		Identity:   oldID,
	})
	if !errors.Is(err, kerrors.ErrMalformedInput) {
		t.Fatalf("Expected ErrMalformedInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "short.dat") {
		t.Errorf("Error should name the file: %v", err)
	}
}

func TestProcessInputErrors(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()

	file := filepath.Join(tempDir, "single.bin")
	writeFile(t, file, []byte("data"))

	empty := filepath.Join(tempDir, "empty")
	writeFile(t, filepath.Join(empty, "notes.txt"), []byte("nothing to see"))

	withSave := filepath.Join(tempDir, "withsave")
	writeFile(t, filepath.Join(withSave, "slot0.bin"), []byte("plain save"))

	tests := []struct {
		name   string
		input  string
		output string
		want   error
	}{
		{"missing", filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "o1"), kerrors.ErrPathNotFound},
		{"file root", file, filepath.Join(tempDir, "o2"), kerrors.ErrNotADirectory},
		{"no saves", empty, filepath.Join(tempDir, "o3"), kerrors.ErrNoSupportedFiles},
		{"output is input", withSave, withSave, kerrors.ErrOutputOverlapsInput},
		{"output inside input", withSave, filepath.Join(withSave, "sub"), kerrors.ErrOutputOverlapsInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(context.Background(), Job{
				Mode:       saves.ModeEncrypt,
				InputRoot:  tt.input,
				OutputRoot: tt.output,
				TitleCode:  testTitle,
				Identity:   oldID,
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestProcessRejectsOutputInsideInput(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in")
	nested := filepath.Join(input, "x", "a.bin")

	writeEncrypted(t, filepath.Join(input, "a.bin"), oldID, []byte("first"))
	writeEncrypted(t, nested, oldID, []byte("second"))
	before, err := os.ReadFile(nested)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", nested, err)
	}

	_, err = Process(context.Background(), Job{
		Mode:       saves.ModeDecrypt,
		InputRoot:  input,
		OutputRoot: filepath.Join(input, "x"),
		TitleCode:  testTitle,
		Identity:   oldID,
	})
	if !errors.Is(err, kerrors.ErrOutputOverlapsInput) {
		t.Fatalf("Expected ErrOutputOverlapsInput, got %v", err)
	}

	after, err := os.ReadFile(nested)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", nested, err)
	}
	if !bytes.Equal(before, after) {
		t.Error("Source save inside the input must not be modified")
	}
	if _, err := os.Stat(filepath.Join(input, "x", SummaryFileName)); !os.IsNotExist(err) {
		t.Error("No summary should be written into the input")
	}
}

func TestInsideDir(t *testing.T) {
	root := filepath.Join("games", "saves")

	tests := []struct {
		path string
		want bool
	}{
		{root, true},
		{filepath.Join(root, "sub"), true},
		{filepath.Join(root, "a", "b"), true},
		{filepath.Join(root, ".."), false},
		{filepath.Join("games", "saves_resigned"), false},
		{filepath.Join("games", "savesx", "out"), false},
		{"games", false},
	}

	for _, tt := range tests {
		if got := insideDir(root, tt.path); got != tt.want {
			t.Errorf("insideDir(%q, %q) = %v, want %v", root, tt.path, got, tt.want)
		}
	}
}

func TestProcessValidatesBeforeIO(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	output := filepath.Join(tempDir, "out")

	tests := []struct {
		name string
		job  Job
		want error
	}{
		{
			name: "bad identity",
			job:  Job{Mode: saves.ModeDecrypt, Identity: "123", TitleCode: testTitle},
			want: kerrors.ErrInvalidIdentity,
		},
		{
			name: "identical identities",
			job:  Job{Mode: saves.ModeResign, OldIdentity: oldID, NewIdentity: oldID, TitleCode: testTitle},
			want: kerrors.ErrIdenticalIdentities,
		},
		{
			name: "unknown title",
			job:  Job{Mode: saves.ModeEncrypt, Identity: oldID, TitleCode: "NOPE"},
			want: kerrors.ErrUnknownTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.job.InputRoot = filepath.Join(tempDir, "missing")
			tt.job.OutputRoot = output

			_, err := Process(context.Background(), tt.job)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Error("Output directory should not be created for an invalid job")
			}
		})
	}

	if entries, _ := audit.ReadEntries(); len(entries) != 0 {
		t.Errorf("Invalid jobs should not be audited, got %d entries", len(entries))
	}
}

func TestProcessEncryptDecryptRoundTrip(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "plain")
	encrypted := filepath.Join(tempDir, "enc")
	decrypted := filepath.Join(tempDir, "dec")

	files := map[string]string{
		"profile.dat":               "profile",
		"slot1/game.details":        "details",
		"slot1/game.details-backup": "backup",
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(input, filepath.FromSlash(rel)), []byte(content))
	}
	writeFile(t, filepath.Join(input, "readme.txt"), []byte("ignored"))

	encResult, err := Process(context.Background(), Job{
		Mode:       saves.ModeEncrypt,
		InputRoot:  input,
		OutputRoot: encrypted,
		TitleCode:  testTitle,
		Identity:   oldID,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(encResult.Written) != 3 || len(encResult.Skipped) != 1 {
		t.Fatalf("Expected 3 written and 1 skipped, got %d and %d", len(encResult.Written), len(encResult.Skipped))
	}

	summary, err := os.ReadFile(filepath.Join(encrypted, SummaryFileName))
	if err != nil {
		t.Fatalf("Expected INFO.txt: %v", err)
	}
	if !strings.Contains(string(summary), "Encrypted 3 files for SteamID "+oldID) {
		t.Errorf("Unexpected summary:\n%s", summary)
	}
	if !strings.Contains(string(summary), "Skipped 1 unsupported files") {
		t.Errorf("Summary should report skipped files:\n%s", summary)
	}

	// INFO.txt in the encrypted tree is unrecognized and skipped on the way back.
	if _, err := Process(context.Background(), Job{
		Mode:       saves.ModeDecrypt,
		InputRoot:  encrypted,
		OutputRoot: decrypted,
		TitleCode:  testTitle,
		Identity:   oldID,
	}); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	for rel, content := range files {
		got, err := os.ReadFile(filepath.Join(decrypted, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("Missing decrypted %s: %v", rel, err)
		}
		if string(got) != content {
			t.Errorf("%s: expected %q, got %q", rel, content, got)
		}
	}
}

func TestProcessIncludePatterns(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in")
	output := filepath.Join(tempDir, "out")

	writeFile(t, filepath.Join(input, "slot0", "a.bin"), []byte("a"))
	writeFile(t, filepath.Join(input, "slot1", "b.bin"), []byte("b"))

	result, err := Process(context.Background(), Job{
		Mode:       saves.ModeEncrypt,
		InputRoot:  input,
		OutputRoot: output,
		TitleCode:  testTitle,
		Identity:   oldID,
		Include:    []string{"slot1/**"},
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.Written) != 1 || filepath.Base(result.Written[0]) != "b.bin" {
		t.Errorf("Expected only b.bin, got %v", result.Written)
	}
	if _, err := os.Stat(filepath.Join(output, "slot0", "a.bin")); !os.IsNotExist(err) {
		t.Error("Excluded file should not be written")
	}
}

func TestProcessProgress(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in")

	writeFile(t, filepath.Join(input, "a.bin"), []byte("a"))
	writeFile(t, filepath.Join(input, "b.dat"), []byte("b"))

	var calls []string
	_, err := Process(context.Background(), Job{
		Mode:       saves.ModeEncrypt,
		InputRoot:  input,
		OutputRoot: filepath.Join(tempDir, "out"),
		TitleCode:  testTitle,
		Identity:   oldID,
		Progress: func(index, total int, name string) {
			calls = append(calls, name)
			if total != 2 {
				t.Errorf("Expected total 2, got %d", total)
			}
			if index != len(calls)-1 {
				t.Errorf("Expected index %d, got %d", len(calls)-1, index)
			}
		},
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if strings.Join(calls, ",") != "a.bin,b.dat" {
		t.Errorf("Unexpected progress calls: %v", calls)
	}
}

func TestProcessRecordsAudit(t *testing.T) {
	useTempSettings(t)
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in")
	writeFile(t, filepath.Join(input, "slot0.bin"), bytes.Repeat([]byte{1}, 64))

	// Plain data does not decrypt, so the first run fails.
	_, _ = Process(context.Background(), Job{
		Mode:       saves.ModeDecrypt,
		InputRoot:  input,
		OutputRoot: filepath.Join(tempDir, "dec"),
		TitleCode:  testTitle,
		Identity:   oldID,
	})
	if _, err := Process(context.Background(), Job{
		Mode:       saves.ModeEncrypt,
		InputRoot:  input,
		OutputRoot: filepath.Join(tempDir, "enc"),
		TitleCode:  testTitle,
		Identity:   newID,
	}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	failed, ok := entries[0], entries[1]
	if failed.Operation != "decrypt" || failed.Error == "" || failed.FilesCount != 0 {
		t.Errorf("Unexpected failed entry: %+v", failed)
	}
	if ok.Operation != "encrypt" || ok.Error != "" || ok.FilesCount != 1 || ok.Identity != audit.MaskIdentity(newID) {
		t.Errorf("Unexpected success entry: %+v", ok)
	}

	data, err := os.ReadFile(audit.LogPath())
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	for _, id := range []string{oldID, newID} {
		if strings.Contains(string(data), id) {
			t.Errorf("Audit log should not contain the full SteamID %s", id)
		}
	}
	if ok.RunID == "" || ok.RunID == failed.RunID {
		t.Error("Each run should have its own run ID")
	}
}

func TestDefaultOutputRoot(t *testing.T) {
	input := filepath.Join("games", "doom", "saves")

	tests := []struct {
		mode       saves.Mode
		configured string
		want       string
	}{
		{saves.ModeResign, "", filepath.Join("games", "doom", "saves_resigned")},
		{saves.ModeDecrypt, "", filepath.Join("games", "doom", "saves_decrypted")},
		{saves.ModeEncrypt, "", filepath.Join("games", "doom", "saves_encrypted")},
		{saves.ModeResign, filepath.Join("backups"), filepath.Join("backups", "saves_resigned")},
	}

	for _, tt := range tests {
		got := DefaultOutputRoot(tt.mode, input+string(filepath.Separator), tt.configured)
		if got != tt.want {
			t.Errorf("DefaultOutputRoot(%s, %q) = %s, want %s", tt.mode, tt.configured, got, tt.want)
		}
	}
}

func TestReportRender(t *testing.T) {
	report := newReport(Job{Mode: saves.ModeDecrypt, Identity: oldID}, 2)
	report.begin("a.bin")
	report.done()
	report.begin("b.dat")
	report.done()

	want := "Processing completed at: 2025-03-14 15:09:26\n\n" +
		"Decrypted 2 files from SteamID " + oldID + "\n\n" +
		"Decrypting a.bin...\n" +
		"Decrypting b.dat...\n" +
		"\nSkipped 2 unsupported files\n"
	if got := report.Render(fixedNow()); got != want {
		t.Errorf("Unexpected report:\n%s\nwant:\n%s", got, want)
	}
}
