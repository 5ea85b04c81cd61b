package filepathparser

import (
	"os"
	"path/filepath"
	"strings"
)

// ParsePath expands a leading "~/" and returns the absolute path.
func ParsePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		dirname, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dirname, path[2:])
	}

	return filepath.Abs(path)
}

// JoinWorkingFolder places an export file in the working folder unless fileName is already absolute.
func JoinWorkingFolder(workingFolderPath string, fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(workingFolderPath, fileName)
}
