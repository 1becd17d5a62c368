package chtlconfig

import "os"

// readFileIfExists returns (nil, nil) when path does not exist instead of
// an error, so optional sidecar files can be treated uniformly.
func readFileIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}
