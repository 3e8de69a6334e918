package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestWatchCommand_RerunsOnChange(t *testing.T) {
	data, err := os.ReadFile(itJobs)
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "IT_Jobs.csv")
	require.NoError(t, os.WriteFile(p, data, 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewRootCommand()
	stdout, stderr := new(syncBuffer), new(syncBuffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"--quiet", "watch", p, "--position", "Backend", "--debounce", "50ms"})

	done := make(chan error, 1)

	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(stderr.String()), []byte("(initial) → OK (2 of 5 vacancies)"))
	}, 5*time.Second, 20*time.Millisecond)

	row := "Backend,Разработка,1-3 года,Удалённо,Payme,2024-01-15,Go,it_jobs_uz\n"
	require.NoError(t, os.WriteFile(p, append(data, []byte(row)...), 0o600))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(stderr.String()), []byte("OK (3 of 6 vacancies)"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	out := stderr.String()
	assert.Contains(t, out, "+total = 3")
	assert.Contains(t, out, "-total = 2")
	assert.Contains(t, stdout.String(), "Found 2 vacancies")
	assert.Contains(t, stdout.String(), "Found 3 vacancies")
}

func TestWatchCommand_InvalidDebounce(t *testing.T) {
	_, _, err := executeCommand("watch", itJobs, "--debounce", "0s")
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "--debounce")
}

func TestWatchCommand_MissingFile(t *testing.T) {
	_, _, err := executeCommand("watch", "/nonexistent/jobs.csv")
	require.Error(t, err)
}
