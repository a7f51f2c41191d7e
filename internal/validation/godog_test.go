package validation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// memoryLookup is an in-memory ConceptNameTagLookup keyed by lowercase tag.
type memoryLookup map[string]*domain.ConceptNameTag

func (m memoryLookup) FindTagByName(_ context.Context, name string) (*domain.ConceptNameTag, error) {
	return m[strings.ToLower(name)], nil
}

// featureContext holds state shared across steps within a scenario.
type featureContext struct {
	lookup    memoryLookup
	validator *ConceptNameTagValidator
	errs      *domain.FieldErrors
	err       error
}

func (fc *featureContext) reset() error {
	policy, err := NewLengthPolicy(DefaultLimits(), discardLogger())
	if err != nil {
		return err
	}

	fc.lookup = memoryLookup{}
	fc.validator = NewConceptNameTagValidator(ConceptNameTagValidatorConfig{
		Lookup:  fc.lookup,
		Lengths: policy,
		Logger:  discardLogger(),
	})
	fc.errs = nil
	fc.err = nil

	return nil
}

func (fc *featureContext) theExistingTags(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}

		tag := &domain.ConceptNameTag{
			ID:   int64(i),
			UUID: row.Cells[0].Value,
			Tag:  row.Cells[1].Value,
		}
		fc.lookup[strings.ToLower(tag.Tag)] = tag
	}

	return nil
}

func (fc *featureContext) validate(candidate *domain.ConceptNameTag) error {
	fc.errs = domain.NewFieldErrors("conceptNameTag")
	fc.err = fc.validator.ValidateTag(context.Background(), candidate, fc.errs)

	return fc.err
}

func (fc *featureContext) iValidateATag(tag string) error {
	return fc.validate(&domain.ConceptNameTag{Tag: tag})
}

func (fc *featureContext) iValidateATagWithVoidReason(tag, reason string) error {
	return fc.validate(&domain.ConceptNameTag{Tag: tag, VoidReason: reason})
}

func (fc *featureContext) iValidateTheTagWithUUID(tag, uuid string) error {
	return fc.validate(&domain.ConceptNameTag{UUID: uuid, Tag: tag})
}

func (fc *featureContext) iValidateTheSavedTagRenamedTo(uuid, tag string) error {
	for _, existing := range fc.lookup {
		if existing.UUID == uuid {
			saved := *existing
			saved.Tag = tag

			return fc.validate(&saved)
		}
	}

	return fmt.Errorf("no existing tag with uuid %q", uuid)
}

func (fc *featureContext) iValidateATagWithLongVoidReason(tag string, n int) error {
	return fc.validate(&domain.ConceptNameTag{Tag: tag, VoidReason: strings.Repeat("r", n)})
}

func (fc *featureContext) iValidateATagOfLength(n int) error {
	return fc.validate(&domain.ConceptNameTag{Tag: strings.Repeat("t", n)})
}

func (fc *featureContext) theValidationShouldReport(n int) error {
	if fc.errs.Len() != n {
		return fmt.Errorf("expected %d errors, got %d: %v", n, fc.errs.Len(), fc.errs.All())
	}

	return nil
}

func (fc *featureContext) fieldShouldBeRejectedWith(field, code string) error {
	if !fc.errs.HasCode(field, code) {
		return fmt.Errorf("field %q not rejected with %q: %v", field, code, fc.errs.All())
	}

	return nil
}

func (fc *featureContext) theValidationShouldPass() error {
	if fc.errs.HasErrors() {
		return fmt.Errorf("expected no errors, got %v", fc.errs.All())
	}

	return nil
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	fc := &featureContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, fc.reset()
	})

	ctx.Step(`^the existing tags:$`, fc.theExistingTags)
	ctx.Step(`^I validate a tag "([^"]*)"$`, fc.iValidateATag)
	ctx.Step(`^I validate a tag "([^"]*)" with void reason "([^"]*)"$`, fc.iValidateATagWithVoidReason)
	ctx.Step(`^I validate the tag "([^"]*)" with uuid "([^"]*)"$`, fc.iValidateTheTagWithUUID)
	ctx.Step(`^I validate the saved tag "([^"]*)" renamed to "([^"]*)"$`, fc.iValidateTheSavedTagRenamedTo)
	ctx.Step(`^I validate a tag "([^"]*)" with a void reason of (\d+) characters$`, fc.iValidateATagWithLongVoidReason)
	ctx.Step(`^I validate a tag of (\d+) characters$`, fc.iValidateATagOfLength)
	ctx.Step(`^the validation should report (\d+) errors?$`, fc.theValidationShouldReport)
	ctx.Step(`^field "([^"]*)" should be rejected with "([^"]*)"$`, fc.fieldShouldBeRejectedWith)
	ctx.Step(`^the validation should pass$`, fc.theValidationShouldPass)
}

// TestFeatures runs the validation scenarios under features/.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
