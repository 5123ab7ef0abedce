package report

import (
	"encoding/json"
	"fmt"
	"os"
)

func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("could not encode json output: %w", err)
	}
	return nil
}
