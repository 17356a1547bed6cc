package pricesearch

import (
	"cdpricesearch/lib/notify"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	AwsRegion          string            `json:"aws_region"`
	EmailFrom          string            `json:"email_from"`
	EmailTo            string            `json:"email_to"`
	JourneyOrigin      string            `json:"journey_origin"`
	Via                string            `json:"via"`
	JourneyDestination string            `json:"journey_destination"`
	DatesToQuery       int               `json:"dates_to_query"`
	Smtp               notify.SmtpConfig `json:"smtp"`
	// print the email instead of sending it
	DryRun             bool              `json:"dry_run"`
}

// UsesSES is true when the report goes out through SES, which is the only
// sink that needs aws_region.
func (c Config) UsesSES() bool {
	return !c.DryRun && c.Smtp.Server == ""
}

type requiredField struct {
	name  string
	value string
}

// Validate reports every missing field at once.
func (c Config) Validate() error {
	required := []requiredField{
		{"email_from", c.EmailFrom},
		{"email_to", c.EmailTo},
		{"journey_origin", c.JourneyOrigin},
		{"via", c.Via},
		{"journey_destination", c.JourneyDestination},
	}
	if c.UsesSES() {
		required = append([]requiredField{{"aws_region", c.AwsRegion}}, required...)
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("missing %s", strings.Join(missing, ", ")))
	}
	if c.DatesToQuery < 1 {
		problems = append(problems, fmt.Sprintf("dates_to_query must be positive, got %d", c.DatesToQuery))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) Journey() Journey {
	return Journey{
		Origin:      c.JourneyOrigin,
		Via:         c.Via,
		Destination: c.JourneyDestination,
	}
}
