package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sternfield-timetable/internal/timetable"
)

type diffTarget struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type diffResult struct {
	Target            diffTarget
	BaselineStatus    int
	CandidateStatus   int
	StatusMatch       bool
	BodyMatch         bool
	Err               error
	BaselineDuration  time.Duration
	CandidateDuration time.Duration
}

func (r diffResult) differs() bool {
	return r.Err != nil || !r.StatusMatch || !r.BodyMatch
}

func newDiffCommand() *cobra.Command {
	var (
		baseline    string
		candidate   string
		prefix      string
		targetsPath string
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare lookup answers between two running deployments",
		Long: "Compare lookup answers between two running deployments, for example the\n" +
			"current timetable and next term's file loaded on another port. Without\n" +
			"--targets, every class is checked on every school day.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: timeout}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var (
				targets []diffTarget
				err     error
			)
			if targetsPath != "" {
				targets, err = loadDiffTargets(targetsPath)
			} else {
				targets, err = discoverDiffTargets(ctx, client, baseline, prefix)
			}
			if err != nil {
				return err
			}

			results := make([]diffResult, 0, len(targets))
			breaking := 0
			for _, t := range targets {
				res := compareDiffTarget(ctx, client, baseline, candidate, t)
				if res.differs() && t.Critical {
					breaking++
				}
				results = append(results, res)
			}

			printDiffReport(cmd.OutOrStdout(), results)
			fmt.Fprintf(cmd.OutOrStdout(), "Breaking diffs: %d of %d targets\n", breaking, len(results))
			if breaking > 0 {
				return fmt.Errorf("%d critical lookups differ", breaking)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseline, "baseline", "http://localhost:8080", "base URL of the deployment currently in use")
	cmd.Flags().StringVar(&candidate, "candidate", "http://localhost:8081", "base URL of the deployment to check")
	cmd.Flags().StringVar(&prefix, "api-prefix", "/api/v1", "API prefix used to discover targets")
	cmd.Flags().StringVar(&targetsPath, "targets", "", "JSON file with an explicit target list")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	return cmd
}

func loadDiffTargets(path string) ([]diffTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Targets []diffTarget `json:"targets"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode targets %s: %w", path, err)
	}
	if len(doc.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return doc.Targets, nil
}

// discoverDiffTargets asks the baseline for its classes and builds one
// critical target per class and school day, plus the catalog routes.
func discoverDiffTargets(ctx context.Context, client *http.Client, base, prefix string) ([]diffTarget, error) {
	prefix = "/" + strings.Trim(prefix, "/")
	resp, _, err := diffRequest(ctx, client, base, diffTarget{Path: prefix + "/timetable/classes"})
	if err != nil {
		return nil, fmt.Errorf("list baseline classes: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode baseline classes: %w", err)
	}

	targets := []diffTarget{
		{Method: http.MethodGet, Path: prefix + "/timetable/classes"},
		{Method: http.MethodGet, Path: prefix + "/timetable/subjects"},
	}
	for _, class := range envelope.Data {
		for _, day := range timetable.SchoolDays {
			targets = append(targets, diffTarget{
				Method:   http.MethodGet,
				Path:     fmt.Sprintf("%s/classes/%s/schedule?day=%s", prefix, url.PathEscape(class), day),
				Critical: true,
			})
		}
	}
	return targets, nil
}

func compareDiffTarget(ctx context.Context, client *http.Client, baseline, candidate string, t diffTarget) diffResult {
	res := diffResult{Target: t}
	baseResp, baseDur, baseErr := diffRequest(ctx, client, baseline, t)
	candResp, candDur, candErr := diffRequest(ctx, client, candidate, t)
	res.BaselineDuration, res.CandidateDuration = baseDur, candDur
	if baseResp != nil {
		defer baseResp.Body.Close()
	}
	if candResp != nil {
		defer candResp.Body.Close()
	}

	if baseErr != nil {
		res.Err = fmt.Errorf("baseline request failed: %w", baseErr)
		return res
	}
	if candErr != nil {
		res.Err = fmt.Errorf("candidate request failed: %w", candErr)
		return res
	}

	res.BaselineStatus, res.CandidateStatus = baseResp.StatusCode, candResp.StatusCode
	res.StatusMatch = res.BaselineStatus == res.CandidateStatus

	baseBody, err := io.ReadAll(baseResp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read baseline body: %w", err)
		return res
	}
	candBody, err := io.ReadAll(candResp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read candidate body: %w", err)
		return res
	}
	res.BodyMatch = diffBodiesEqual(baseBody, candBody)
	return res
}

func diffRequest(ctx context.Context, client *http.Client, base string, t diffTarget) (*http.Response, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(t.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := t.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp, time.Since(start), nil
}

// diffBodiesEqual compares the data and error parts of two response
// envelopes. Meta is ignored since it carries per-request values.
func diffBodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var aj, bj map[string]interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	delete(aj, "meta")
	delete(bj, "meta")
	return reflect.DeepEqual(aj, bj)
}

func printDiffReport(w io.Writer, results []diffResult) {
	fmt.Fprintln(w, "Timetable Diff Report")
	fmt.Fprintln(w, "=====================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if res.differs() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Err)
			continue
		}
		if res.differs() {
			fmt.Fprintf(w, "  Baseline: %d (%s) | Candidate: %d (%s) | Body match: %t | Critical: %t\n",
				res.BaselineStatus, res.BaselineDuration, res.CandidateStatus, res.CandidateDuration, res.BodyMatch, res.Target.Critical)
		}
	}
}
