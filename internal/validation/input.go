package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits
const (
	MinUsernameLength       = 3
	MaxUsernameLength       = 30
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MinJobDescriptionLength = 10
	MaxJobDescriptionLength = 5000
	MaxAddressLength        = 300
	MaxStateLength          = 100
	MaxAmount               = 100000000.0
	BankAccountNumberLength = 10 // NUBAN
)

// ValidateLength checks the rune length of a string.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty checks that a string is not blank.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	accountRegex     = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 || !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("invalid email format")
	}
	if len(domain) == 0 || len(domain) > 255 || !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidateUsername checks the username format.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and underscores")
	}

	return nil
}

// ValidateJobTitle checks a job title.
func ValidateJobTitle(title string) error {
	if err := ValidateNonEmpty("job title", title); err != nil {
		return err
	}
	return ValidateLength("job title", strings.TrimSpace(title), MinJobTitleLength, MaxJobTitleLength)
}

// ValidateJobDescription checks a job description.
func ValidateJobDescription(description string) error {
	if err := ValidateNonEmpty("job description", description); err != nil {
		return err
	}
	return ValidateLength("job description", strings.TrimSpace(description), MinJobDescriptionLength, MaxJobDescriptionLength)
}

// ValidateAmount checks a monetary amount in Naira.
func ValidateAmount(fieldName string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s cannot exceed %.0f", fieldName, MaxAmount)
	}
	return nil
}

// ValidateCoordinates checks a latitude/longitude pair.
func ValidateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return fmt.Errorf("latitude and longitude must be provided together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateBankAccountNumber checks a NUBAN account number.
func ValidateBankAccountNumber(number string) error {
	number = strings.TrimSpace(number)
	if len(number) != BankAccountNumberLength || !accountRegex.MatchString(number) {
		return fmt.Errorf("bank account number must be %d digits", BankAccountNumberLength)
	}
	return nil
}
