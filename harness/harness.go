// Package harness verifies that the target service is up before any test
// runs. It polls the environment's status resource until the service
// responds, records the capabilities and version the service reports, and
// refuses to run against a service older than the configured minimum.
package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/logging"
)

const statusPollInterval = 100 * time.Millisecond

// ServiceInfo is the metadata the target service returns from its status
// resource. All fields are optional; a service that returns an empty body
// simply gets no capability-based skipping and no version gate.
type ServiceInfo struct {
	Description  string   `json:"description"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// Harness holds what the run learned about the target service.
type Harness struct {
	env    config.Environment
	info   ServiceInfo
	logger logging.Logger
}

// New queries the target's status resource, retrying until timeout elapses,
// and applies the environment's minimum-version constraint. startupOutput
// receives connection progress for the console.
func New(env config.Environment, timeout time.Duration, logger logging.Logger, startupOutput io.Writer) (*Harness, error) {
	if logger == nil {
		logger = logging.NullLogger()
	}
	if env.StatusPath == "" {
		// No status resource configured; trust that the service is there.
		return &Harness{env: env, logger: logger}, nil
	}

	info, err := queryServiceInfo(env.BaseURL+env.StatusPath, timeout, startupOutput)
	if err != nil {
		return nil, err
	}

	if err := checkMinimumVersion(env.MinServiceVersion, info.Version); err != nil {
		return nil, err
	}

	logger.Printf("Target service: %s (version %q)", info.Description, info.Version)
	return &Harness{env: env, info: info, logger: logger}, nil
}

func (h *Harness) Environment() config.Environment { return h.env }

func (h *Harness) ServiceInfo() ServiceInfo { return h.info }

// HasCapability reports whether the target declared the named capability.
// Suites use this to skip tests the target cannot support.
func (h *Harness) HasCapability(desired string) bool {
	for _, capability := range h.info.Capabilities {
		if capability == desired {
			return true
		}
	}
	return false
}

// MissingCapabilities returns which of the given capabilities the target
// did not declare, for the pre-run console summary.
func (h *Harness) MissingCapabilities(all []string) []string {
	var ret []string
	for _, capability := range all {
		if !h.HasCapability(capability) {
			ret = append(ret, capability)
		}
	}
	return ret
}

func queryServiceInfo(url string, timeout time.Duration, output io.Writer) (ServiceInfo, error) {
	fmt.Fprintf(output, "Connecting to target service at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := http.DefaultClient.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			if resp.StatusCode != 200 {
				return ServiceInfo{}, fmt.Errorf("target service returned status code %d", resp.StatusCode)
			}
			respData, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return ServiceInfo{}, err
			}
			if len(respData) == 0 {
				fmt.Fprintf(output, "Status query successful, but the service provided no metadata\n")
				return ServiceInfo{}, nil
			}
			var info ServiceInfo
			if err := json.Unmarshal(respData, &info); err != nil {
				return ServiceInfo{}, fmt.Errorf("malformed status response from target service: %s", string(respData))
			}
			fmt.Fprintf(output, "Status query returned metadata: %s\n", string(respData))
			return info, nil
		}
		if !time.Now().Before(deadline) {
			return ServiceInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusPollInterval)
	}
}

func checkMinimumVersion(constraintExpr, reported string) error {
	if constraintExpr == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(constraintExpr)
	if err != nil {
		return fmt.Errorf("invalid minServiceVersion constraint %q: %w", constraintExpr, err)
	}
	if reported == "" {
		return fmt.Errorf("environment requires service version %q but the service reported none", constraintExpr)
	}
	version, err := semver.NewVersion(reported)
	if err != nil {
		return fmt.Errorf("service reported unparsable version %q: %w", reported, err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("service version %s does not satisfy required %q", version, constraintExpr)
	}
	return nil
}
