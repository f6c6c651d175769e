// internal/scripts/repository.go
package scripts

import (
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/DulceVida/MagoChat/internal/errors"
	"github.com/DulceVida/MagoChat/internal/models"
)

// Repository holds every known conversation script: the built-in demos plus
// whatever operators upload. Scripts are immutable once added; the repository
// hands out the stored instance directly.
type Repository struct {
	mu      sync.RWMutex
	scripts map[string]*models.ConversationScript
	order   []string
	builtin map[string]bool
}

// NewRepository creates a repository pre-populated with the built-in scripts.
func NewRepository() *Repository {
	r := &Repository{
		scripts: make(map[string]*models.ConversationScript),
		builtin: make(map[string]bool),
	}

	for _, script := range BuiltinScripts() {
		r.scripts[script.ID] = script
		r.order = append(r.order, script.ID)
		r.builtin[script.ID] = true
	}

	return r
}

// Validate checks the script import contract: id, name and a non-empty steps
// list are required, step ids must be unique within the script, and every
// variant needs a pattern. A dangling next_step_id is deliberately NOT an
// error here — the engine degrades it to script-complete at runtime.
func Validate(script *models.ConversationScript) error {
	if script == nil {
		return apperrors.NewValidationError("script is empty", nil)
	}
	if strings.TrimSpace(script.ID) == "" {
		return apperrors.NewValidationError("script is missing required field 'id'", nil)
	}
	if strings.TrimSpace(script.Name) == "" {
		return apperrors.NewValidationError("script is missing required field 'name'", nil)
	}
	if len(script.Steps) == 0 {
		return apperrors.NewValidationError("script must declare at least one step", nil)
	}

	seen := make(map[string]bool, len(script.Steps))
	for i, step := range script.Steps {
		if strings.TrimSpace(step.ID) == "" {
			return apperrors.NewValidationError(fmt.Sprintf("step %d is missing an id", i+1), nil)
		}
		if seen[step.ID] {
			return apperrors.NewValidationError(fmt.Sprintf("duplicate step id %q", step.ID), nil)
		}
		seen[step.ID] = true

		for j, variant := range step.Variants {
			if strings.TrimSpace(variant.Pattern) == "" {
				return apperrors.NewValidationError(
					fmt.Sprintf("step %q variant %d is missing a pattern", step.ID, j+1), nil)
			}
		}
	}

	return nil
}

// Add validates and registers a script. A duplicate id against any known
// script, built-in or uploaded, is rejected and the repository is left
// unchanged.
func (r *Repository) Add(script *models.ConversationScript) error {
	if err := Validate(script); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scripts[script.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("a script with id %q already exists", script.ID), nil)
	}

	r.scripts[script.ID] = script
	r.order = append(r.order, script.ID)

	return nil
}

// Remove deletes an uploaded script. Built-in scripts are protected.
func (r *Repository) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scripts[id]; !exists {
		return apperrors.NewNotFoundError(fmt.Sprintf("script %q not found", id), nil)
	}
	if r.builtin[id] {
		return apperrors.NewValidationError(fmt.Sprintf("script %q is built-in and cannot be removed", id), nil)
	}

	delete(r.scripts, id)
	for i, known := range r.order {
		if known == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// Get returns a script by id.
func (r *Repository) Get(id string) (*models.ConversationScript, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	script, ok := r.scripts[id]
	return script, ok
}

// List returns every script in registration order.
func (r *Repository) List() []*models.ConversationScript {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ConversationScript, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scripts[id])
	}
	return out
}

// IsBuiltin reports whether id names a built-in script.
func (r *Repository) IsBuiltin(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.builtin[id]
}

// Count returns how many scripts are known.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.scripts)
}
