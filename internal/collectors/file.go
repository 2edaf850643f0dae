package collectors

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/emirozbir/alert2jira/internal/models"
)

// StdinPath makes ReadAlert read the alert from standard input.
const StdinPath = "-"

var ErrNoAlertPath = errors.New("alert JSON file argument missing")

// AlertFileCollector loads a single alert from a file or stdin.
type AlertFileCollector struct {
	fs    afero.Fs
	stdin io.Reader
}

func NewAlertFileCollector() *AlertFileCollector {
	return &AlertFileCollector{
		fs:    afero.NewOsFs(),
		stdin: os.Stdin,
	}
}

// ReadAlert reads and parses the alert at path.
func (c *AlertFileCollector) ReadAlert(path string) (*models.Alert, error) {
	if path == "" {
		return nil, ErrNoAlertPath
	}

	var (
		data []byte
		err  error
	)
	if path == StdinPath {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = afero.ReadFile(c.fs, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read alert %s", path)
	}

	alert, err := models.ParseAlert(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse alert %s", path)
	}

	return alert, nil
}
