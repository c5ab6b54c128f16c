package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jrh3k5/cryptopay-request/currency"
	"github.com/manifoldco/promptui"
)

// promptIfEmpty returns the value as given, or asks for it if it is empty.
func promptIfEmpty(value string, label string, validate promptui.ValidateFunc) (string, error) {
	if value != "" {
		if validate != nil {
			if err := validate(value); err != nil {
				return "", err
			}
		}
		return value, nil
	}

	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	entered, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	return strings.TrimSpace(entered), nil
}

func validateOrderID(orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return errors.New("an order ID is required")
	}

	return nil
}

func amountValidator(decimals int32) promptui.ValidateFunc {
	return func(amount string) error {
		_, err := currency.ToBaseUnits(strings.TrimSpace(amount), decimals)
		return err
	}
}

// confirm asks the user to approve an action; declining yields an error.
func confirm(label string) error {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return errors.New("cancelled")
		}
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	return nil
}
