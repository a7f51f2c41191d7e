//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// apiContext holds the state of one scenario.
type apiContext struct {
	t       testing.TB
	svc     *service
	who     identity
	status  int
	body    []byte
	decoded any
	vars    map[string]string
}

func (ac *apiContext) reset() {
	ac.svc = nil
	ac.who = identity{}
	ac.status = 0
	ac.body = nil
	ac.decoded = nil
	ac.vars = map[string]string{}
}

func (ac *apiContext) theServiceIsRunning() error {
	ac.svc = startService(ac.t, nil)

	status, _, err := ac.svc.do(context.Background(), identity{}, http.MethodGet, "/-/live", nil)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return fmt.Errorf("liveness returned %d", status)
	}

	return nil
}

func (ac *apiContext) iAm(role string) error {
	switch role {
	case "manager":
		ac.who = manager
	case "reader":
		ac.who = reader
	case "anonymous":
		ac.who = identity{}
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	return nil
}

func (ac *apiContext) send(method, path, body string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}

	var err error
	ac.status, ac.body, err = ac.svc.doRaw(ctx, ac.who, method, ac.expand(path), payload)
	ac.decoded = nil

	return err
}

func (ac *apiContext) iSendWithBody(method, path string, body *godog.DocString) error {
	return ac.send(method, path, body.Content)
}

func (ac *apiContext) iSend(method, path string) error {
	return ac.send(method, path, "")
}

func (ac *apiContext) iValidateWithLongVoidReason(tag string, length int) error {
	raw, err := json.Marshal(map[string]string{
		"tag":        tag,
		"voidReason": strings.Repeat("r", length),
	})
	if err != nil {
		return err
	}

	return ac.send(http.MethodPost, "/api/v1/concept-name-tags/validate", string(raw))
}

func (ac *apiContext) theResponseStatusShouldBe(want int) error {
	if ac.status != want {
		return fmt.Errorf("expected status %d, got %d. Body: %s", want, ac.status, ac.body)
	}

	return nil
}

func (ac *apiContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(ac.body), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, ac.body)
	}

	return nil
}

func (ac *apiContext) theJSONFieldShouldBe(path, want string) error {
	got, err := ac.field(path)
	if err != nil {
		return err
	}

	if got != want {
		return fmt.Errorf("field %s: expected %q, got %q. Body: %s", path, want, got, ac.body)
	}

	return nil
}

func (ac *apiContext) iRememberTheJSONField(path, name string) error {
	got, err := ac.field(path)
	if err != nil {
		return err
	}

	ac.vars[name] = got

	return nil
}

// expand replaces {name} with remembered values.
func (ac *apiContext) expand(path string) string {
	for name, value := range ac.vars {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}

	return path
}

// field walks a dot separated path through the decoded body. Numeric
// segments index arrays.
func (ac *apiContext) field(path string) (string, error) {
	if ac.decoded == nil {
		if err := json.Unmarshal(ac.body, &ac.decoded); err != nil {
			return "", fmt.Errorf("response is not JSON: %w. Body: %s", err, ac.body)
		}
	}

	node := ac.decoded

	for _, key := range strings.Split(path, ".") {
		switch v := node.(type) {
		case map[string]any:
			next, ok := v[key]
			if !ok {
				return "", fmt.Errorf("field %s: no key %q. Body: %s", path, key, ac.body)
			}

			node = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(v) {
				return "", fmt.Errorf("field %s: no element %q. Body: %s", path, key, ac.body)
			}

			node = v[i]
		default:
			return "", fmt.Errorf("field %s: %q is not a container. Body: %s", path, key, ac.body)
		}
	}

	switch v := node.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "null", nil
	default:
		raw, err := json.Marshal(v)
		return string(raw), err
	}
}

func initializeScenario(t testing.TB) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		ac := &apiContext{t: t}

		sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			ac.reset()
			return ctx, nil
		})

		sc.Step(`^the service is running$`, ac.theServiceIsRunning)
		sc.Step(`^I am (?:a |an )?(manager|reader|anonymous)$`, ac.iAm)
		sc.Step(`^I (GET|POST|PUT|DELETE) "([^"]*)" with:$`, ac.iSendWithBody)
		sc.Step(`^I (GET|POST|PUT|DELETE) "([^"]*)"$`, ac.iSend)
		sc.Step(`^I validate the tag "([^"]*)" with a void reason of (\d+) characters$`, ac.iValidateWithLongVoidReason)
		sc.Step(`^the response status should be (\d+)$`, ac.theResponseStatusShouldBe)
		sc.Step(`^the response should contain "([^"]*)"$`, ac.theResponseShouldContain)
		sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, ac.theJSONFieldShouldBe)
		sc.Step(`^I remember the JSON field "([^"]*)" as "([^"]*)"$`, ac.iRememberTheJSONField)
	}
}

// TestFeatures runs the API scenarios against an in-process service.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
