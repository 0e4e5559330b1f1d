package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForPassword asks for the Odoo password when ODOO_PASSWORD is unset.
func PromptForPassword(username string) (string, error) {
	var password string
	prompt := &survey.Password{
		Message: fmt.Sprintf("Odoo password for %s:", username),
		Help:    "The password is only kept in memory for this session. Set ODOO_PASSWORD to skip this prompt.",
	}

	err := survey.AskOne(prompt, &password, survey.WithValidator(func(val interface{}) error {
		if strings.TrimSpace(val.(string)) == "" {
			return fmt.Errorf("password cannot be empty")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return password, nil
}

// PromptForSaveReport asks whether to write a JSON report to disk.
func PromptForSaveReport() (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: "Save the detailed results to a JSON report?",
		Default: true,
	}
	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}
