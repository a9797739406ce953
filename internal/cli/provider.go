package cli

import (
	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/ui"
)

var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider feeds the active ui theme to apperrors.HandleRunError.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }
