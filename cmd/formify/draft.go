package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formify/pkg/editor"
	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/schema"
)

// draftFile is the on-disk shape of a local editing session.
type draftFile struct {
	ActiveStepID string           `yaml:"activeStepId"`
	Form         *model.FormModel `yaml:"form"`
}

func (c *cli) sessionOptions() []editor.Option {
	opts := []editor.Option{
		editor.WithIDs(model.NewSequenceIDs()),
		editor.WithDecorators(model.TrimText),
	}
	if c.userID != "" {
		opts = append(opts, editor.WithCreator(c.userID))
	}
	return opts
}

// loadSession restores the session saved at the draft path.
func (c *cli) loadSession() (*editor.Session, error) {
	raw, err := os.ReadFile(c.draftPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no draft at %s; run \"formify new\" first", c.draftPath)
	}
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}

	var file draftFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse draft %s: %w", c.draftPath, err)
	}
	if file.Form == nil {
		file.Form = model.New()
	}
	payload, err := json.Marshal(file.Form)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return editor.RestoreSession(schema.Draft{
		ActiveStepID: file.ActiveStepID,
		Form:         payload,
	}, c.sessionOptions()...)
}

// saveSession writes the session atomically to the draft path.
func (c *cli) saveSession(s *editor.Session) error {
	raw, err := yaml.Marshal(draftFile{ActiveStepID: s.Steps.ActiveStepID(), Form: s.Form})
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if dir := filepath.Dir(c.draftPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create draft directory: %w", err)
		}
	}
	tmp := c.draftPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	if err := os.Rename(tmp, c.draftPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write draft: %w", err)
	}
	c.log().Debug("draft saved", zap.String("path", c.draftPath))
	return nil
}

// edit loads the session, applies fn and saves it when fn succeeds.
func (c *cli) edit(fn func(*editor.Session) error) error {
	s, err := c.loadSession()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return c.saveSession(s)
}

// draftSnapshot converts the local draft into the server's draft document.
func (c *cli) draftSnapshot() (schema.Draft, error) {
	s, err := c.loadSession()
	if err != nil {
		return schema.Draft{}, err
	}
	return s.Snapshot(c.userID)
}
