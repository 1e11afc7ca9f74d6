package tcp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/collect/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureTCP = ` sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode
   0: 00000000:0017 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 12345 1 0000000000000000 100 0 0 10 0
   1: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 12346 1 0000000000000000 100 0 0 10 0
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tcp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListener_DetectsListeningPort(t *testing.T) {
	tcpPath := writeFixture(t, fixtureTCP)
	emptyPath := writeFixture(t, " sl local_address rem_address st\n")

	l := tcp.NewWithPaths(tcpPath, emptyPath)
	data, err := l.Collect(23) // 0x0017 = 23
	require.NoError(t, err)
	assert.True(t, data.Fields["listening"].Bool)
}

func TestListener_PortNotListening(t *testing.T) {
	tcpPath := writeFixture(t, fixtureTCP)
	emptyPath := writeFixture(t, " sl local_address rem_address st\n")

	l := tcp.NewWithPaths(tcpPath, emptyPath)
	data, err := l.Collect(9999)
	require.NoError(t, err)
	assert.False(t, data.Fields["listening"].Bool)
}

func TestListener_MissingProcFileTreatedAsNotListening(t *testing.T) {
	l := tcp.NewWithPaths("/nonexistent/tcp", "/nonexistent/tcp6")
	data, err := l.Collect(80)
	require.NoError(t, err)
	assert.False(t, data.Fields["listening"].Bool)
}
