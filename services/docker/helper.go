package docker

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// ContainerName returns the deterministic, job-scoped container name for
// an action.
func ContainerName(jobID, actionName string) string {
	return fmt.Sprintf("minsub-%s-%s", safeName(jobID), safeName(actionName))
}

// VolumeName returns the name of the job's data disk volume.
func VolumeName(jobID string) string {
	return fmt.Sprintf("minsub-%s-data", safeName(jobID))
}

// Keep names docker-friendly and deterministic.
func safeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// DemuxDockerLogs splits a multiplexed docker log stream into its stdout
// and stderr payloads. Returns nil on a clean EOF.
func DemuxDockerLogs(dstOut, dstErr io.Writer, src io.Reader) error {
	r := bufio.NewReader(src)

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			// Clean EOF: stream ends.
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}

		streamType := header[0] // 1=stdout, 2=stderr
		size := binary.BigEndian.Uint32(header[4:8])

		if size == 0 {
			continue
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return err
		}

		var w io.Writer
		switch streamType {
		case 1:
			w = dstOut
		case 2:
			w = dstErr
		default:
			// Unknown stream, treat as stdout to avoid dropping data.
			w = dstOut
		}

		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("write docker log payload: %w", err)
		}
	}
}
