package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteProject writes a project as JSON or YAML depending on the file extension
func WriteProject(project *Project, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(project)
	case ".json":
		data, err = json.MarshalIndent(project, "", "  ")
	default:
		return fmt.Errorf("unsupported project format: %s", path)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadProject reads a project from a JSON or YAML file
func ReadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var project Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &project)
	case ".json":
		err = json.Unmarshal(data, &project)
	default:
		return nil, fmt.Errorf("unsupported project format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse project %s: %w", filepath.Base(path), err)
	}

	return &project, nil
}
