package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
	ctx.Step(`^I register as "([^"]*)" with password "([^"]*)" and name "([^"]*)"$`, iRegisterAs)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, iLogInAs)
	ctx.Step(`^I use the token from the response$`, iUseTheTokenFromTheResponse)
	ctx.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, iRememberTheResponseField)
	ctx.Step(`^(\d+) days pass$`, daysPass)
}

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

// expand substitutes {name} placeholders with remembered values.
func (tc *TestContext) expand(s string) string {
	for name, value := range tc.vars {
		s = strings.ReplaceAll(s, "{"+name+"}", value)
	}
	return s
}

func (tc *TestContext) send(method, endpoint, body string) error {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(tc.expand(body))
	}

	req, err := http.NewRequest(method, tc.server.URL+tc.expand(endpoint), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	return GetTestContext(ctx).send(method, endpoint, "")
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	return GetTestContext(ctx).send(method, endpoint, body.Content)
}

func iSetHeaderTo(ctx context.Context, header, value string) error {
	tc := GetTestContext(ctx)
	if header == "Authorization" {
		tc.accessToken = ""
	}
	tc.requestHeaders[header] = value
	return nil
}

func iAmNotAuthenticated(ctx context.Context) error {
	tc := GetTestContext(ctx)
	tc.accessToken = ""
	delete(tc.requestHeaders, "Authorization")
	return nil
}

func iRegisterAs(ctx context.Context, email, password, name string) error {
	tc := GetTestContext(ctx)
	body, _ := json.Marshal(map[string]string{"email": email, "password": password, "name": name})
	tc.accessToken = ""
	if err := tc.send(http.MethodPost, "/api/auth/register", string(body)); err != nil {
		return err
	}
	if tc.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("register returned %d: %s", tc.response.StatusCode, tc.responseBody)
	}
	return iUseTheTokenFromTheResponse(ctx)
}

func iLogInAs(ctx context.Context, email, password string) error {
	tc := GetTestContext(ctx)
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	tc.accessToken = ""
	if err := tc.send(http.MethodPost, "/api/auth/login", string(body)); err != nil {
		return err
	}
	if tc.response.StatusCode != http.StatusOK {
		return nil
	}
	return iUseTheTokenFromTheResponse(ctx)
}

func iUseTheTokenFromTheResponse(ctx context.Context) error {
	tc := GetTestContext(ctx)
	value, err := tc.responseField("token")
	if err != nil {
		return err
	}
	token, ok := value.(string)
	if !ok || token == "" {
		return fmt.Errorf("response has no token: %s", tc.responseBody)
	}
	tc.accessToken = token
	return nil
}

func iRememberTheResponseField(ctx context.Context, field, name string) error {
	tc := GetTestContext(ctx)
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}
	tc.vars[name] = fmt.Sprintf("%v", value)
	return nil
}

func daysPass(ctx context.Context, days string) error {
	n, err := strconv.Atoi(days)
	if err != nil {
		return err
	}
	GetTestContext(ctx).clock.Advance(time.Duration(n) * 24 * time.Hour)
	return nil
}
