// Package dmm reads the DMM Game Player launcher configuration to find where
// a product is installed.
package dmm

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ProductID is the launcher product id of the game.
const ProductID = "umamusume"

// ConfigPath returns the launcher config file path under the roaming
// app-data dir.
func ConfigPath(appDataDir string) string {
	return filepath.Join(appDataDir, "dmmgameplayer5", "dmmgame.cnf")
}

// DetectInstallDir returns the install path of productID recorded in the
// launcher config, but only if that path is an existing directory. The first
// entry with a matching productId decides the result. A missing or malformed
// config yields ("", false).
func DetectInstallDir(appDataDir, productID string) (string, bool) {
	data, err := os.ReadFile(ConfigPath(appDataDir))
	if err != nil {
		return "", false
	}
	path, ok := findProductPath(data, productID)
	if !ok {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return path, true
}

func findProductPath(data []byte, productID string) (string, bool) {
	var config struct {
		Contents []json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return "", false
	}

	for _, raw := range config.Contents {
		var game map[string]json.RawMessage
		if err := json.Unmarshal(raw, &game); err != nil || game == nil {
			return "", false
		}

		var id string
		if err := json.Unmarshal(game["productId"], &id); err != nil {
			continue
		}
		if id != productID {
			continue
		}

		var detail map[string]json.RawMessage
		if err := json.Unmarshal(game["detail"], &detail); err != nil || detail == nil {
			return "", false
		}
		var path string
		if err := json.Unmarshal(detail["path"], &path); err != nil {
			return "", false
		}
		return path, true
	}
	return "", false
}
