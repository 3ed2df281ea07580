package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrNonInteractive 非交互模式下需要确认时返回
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Confirmer 向用户提出是/否问题
type Confirmer interface {
	Confirm(title string, defaultValue bool) (bool, error)
}

// huhConfirmer 使用 huh 在终端里交互确认
type huhConfirmer struct{}

func (huhConfirmer) Confirm(title string, defaultValue bool) (bool, error) {
	result := defaultValue
	err := huh.NewConfirm().
		Title(title).
		Value(&result).
		Run()
	return result, err
}

// noopConfirmer 非交互模式，总是返回 ErrNonInteractive
type noopConfirmer struct{}

func (noopConfirmer) Confirm(string, bool) (bool, error) {
	return false, ErrNonInteractive
}
