package stage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
)

// WriteFile stages content at destURL+".new", backs up any existing
// destURL content to destURL+".bak", then renames the staged file over
// destURL. On any error the "*.new" file (if written) is left in place
// for inspection and destURL is untouched.
func WriteFile(ctx context.Context, destURL string, content []byte) error {
	fs := afs.New()

	newURL := destURL + ".new"
	if err := fs.Upload(ctx, newURL, 0644, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("stage: writing %s: %w", newURL, err)
	}

	exists, err := fs.Exists(ctx, destURL)
	if err != nil {
		return fmt.Errorf("stage: checking %s: %w", destURL, err)
	}
	if exists {
		bakURL := destURL + ".bak"
		if err := fs.Move(ctx, destURL, bakURL); err != nil {
			return fmt.Errorf("stage: backing up %s: %w", destURL, err)
		}
	}

	if err := fs.Move(ctx, newURL, destURL); err != nil {
		return fmt.Errorf("stage: renaming %s over %s: %w", newURL, destURL, err)
	}
	return nil
}
