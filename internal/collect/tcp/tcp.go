// Package tcp implements the TCP listener reference collector of
// §4.7: parse /proc/net/tcp (and /proc/net/tcp6) to determine whether
// any process is listening on a given port.
package tcp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

const tcpListenState = "0A"

// Listener reads kernel TCP socket tables to answer "is something
// listening on this port."
type Listener struct {
	procNetTCP  string
	procNetTCP6 string
}

// New returns a Listener reading the standard /proc/net/tcp{,6} paths.
func New() *Listener {
	return &Listener{procNetTCP: "/proc/net/tcp", procNetTCP6: "/proc/net/tcp6"}
}

// NewWithPaths returns a Listener reading from explicit paths, for
// testing against fixture files.
func NewWithPaths(tcpPath, tcp6Path string) *Listener {
	return &Listener{procNetTCP: tcpPath, procNetTCP6: tcp6Path}
}

// Collect reports whether port has a listening socket. CollectedData
// fields: "listening" (bool), "port" (int).
func (l *Listener) Collect(port int) (model.CollectedData, error) {
	listening, err := l.isListening(port)
	if err != nil {
		return model.CollectedData{}, err
	}

	return model.CollectedData{
		Fields: map[string]model.Value{
			"listening": model.NewBool(listening),
			"port":      model.NewInt(int64(port)),
		},
		Method: model.CollectionMethod{
			Type:   "filesystem",
			Target: l.procNetTCP,
		},
		Exists: true,
	}, nil
}

func (l *Listener) isListening(port int) (bool, error) {
	for _, path := range []string{l.procNetTCP, l.procNetTCP6} {
		found, err := scanForPort(path, port)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// scanForPort parses one /proc/net/tcp{,6}-format file, looking for a
// local-address entry on port in state LISTEN (hex "0A").
func scanForPort(path string, port int) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to open %q", path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue // header line
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		localAddr := fields[1]
		state := fields[3]
		parts := strings.Split(localAddr, ":")
		if len(parts) != 2 {
			continue
		}
		localPort, err := strconv.ParseInt(parts[1], 16, 32)
		if err != nil {
			continue
		}
		if int(localPort) == port && strings.EqualFold(state, tcpListenState) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to scan %q", path), err)
	}
	return false, nil
}
