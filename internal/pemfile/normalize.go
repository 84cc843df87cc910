package pemfile

import (
	"encoding/hex"
	"os"
	"regexp"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var emptyCoordinateRe = regexp.MustCompile(`^<P\d+>\s+~`)

// Normalize rewrites the PEM file at path for Provus: empty coordinate lines
// (a <Pnn> marker followed directly by '~') are dropped, and when the file
// carries no <MOD>uuid= line a fresh one is inserted after the last
// coordinate line. Returns false when the file was already normalized.
func Normalize(path string) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrap(err, "read pem file error")
	}
	lines := strings.Split(string(b), "\n")

	var out []string
	hasUUID := false
	lastCoordIdx := -1
	dropped := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if emptyCoordinateRe.MatchString(trimmed) {
			dropped++
			continue
		}
		if strings.HasPrefix(trimmed, "<MOD>uuid=") {
			hasUUID = true
		}
		if strings.HasPrefix(trimmed, "<P") {
			lastCoordIdx = len(out)
		}
		out = append(out, line)
	}

	if dropped == 0 && hasUUID {
		return false, nil
	}

	if !hasUUID && lastCoordIdx >= 0 {
		id, err := uuid.NewV4()
		if err != nil {
			return false, errors.Wrap(err, "new uuid error")
		}
		uuidLine := "<MOD>uuid=" + hex.EncodeToString(id.Bytes())
		out = append(out[:lastCoordIdx+1], append([]string{uuidLine}, out[lastCoordIdx+1:]...)...)
		log.WithFields(log.Fields{
			"file": path,
			"uuid": uuidLine,
		}).Info("pemfile: added uuid line")
	}

	if err := os.WriteFile(path, []byte(strings.Join(out, "\n")), 0644); err != nil {
		return false, errors.Wrap(err, "write pem file error")
	}

	log.WithFields(log.Fields{
		"file":           path,
		"dropped_coords": dropped,
	}).Info("pemfile: file normalized")
	return true, nil
}
