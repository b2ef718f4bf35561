// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package duo

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

// envelope wraps every JSON answer of the Duo endpoints.
type envelope[T any] struct {
	Stat     string `json:"stat"`
	Message  string `json:"message"`
	Response *T     `json:"response"`
}

func decodeEnvelope[T any](resp *adapter.Response) (T, error) {
	var (
		zero T
		env  envelope[T]
	)

	if err := json.Unmarshal(resp.Body, &env); err != nil {
		if !resp.IsSuccess() {
			return zero, requestError(resp, "")
		}
		return zero, app.InvalidResponse("duo: decode json", err).WithRequest(resp.RequestURL, resp.StatusCode)
	}

	if !resp.IsSuccess() || env.Stat != "OK" || env.Response == nil {
		return zero, requestError(resp, env.Message)
	}

	return *env.Response, nil
}

func postForm[T any](
	ctx context.Context,
	rest *adapter.RestClient,
	endpoint string,
	form url.Values,
	headers map[string]string,
) (T, error) {
	resp, err := rest.PostForm(ctx, endpoint, form, headers)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEnvelope[T](resp)
}

// pollState is one answer of the status endpoint.
type pollState struct {
	status    Status
	text      string
	resultURL string
}

func statusFromResult(result string) Status {
	switch result {
	case "SUCCESS":
		return StatusSuccess
	case "FAILURE":
		return StatusError
	}
	return StatusInfo
}

// protocol is what differs between V1 and V4.
type protocol interface {
	submit(ctx context.Context, choice Choice, passcode string) (txid string, err error)
	status(ctx context.Context, txid string) (pollState, error)
	finish(ctx context.Context, txid string, choice Choice, state pollState) (code string, err error)
}

func updateUI(ui UI, status Status, text string) {
	if text == "" {
		return
	}
	ui.UpdateDuoStatus(status, text)
}

// negotiate runs choose, submit and poll until a token is obtained, the
// user cancels or a non-recoverable error happens.
func negotiate(ctx context.Context, p protocol, devices []Device, ui UI, poll mfa.PollConfig) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		choice, err := ui.ChooseDuoFactor(ctx, devices)
		if err != nil {
			return Result{}, mfa.MapCancel(err)
		}

		// SMS only asks the server to text new passcodes, the user then
		// types one of them.
		if choice.Factor == FactorSendPasscodesBySMS {
			if _, err = p.submit(ctx, choice, ""); err != nil {
				return Result{}, err
			}
			choice.Factor = FactorPasscode
		}

		passcode := ""
		if choice.Factor == FactorPasscode {
			passcode, err = ui.ProvideDuoPasscode(ctx, choice.Device)
			if err != nil {
				return Result{}, mfa.MapCancel(err)
			}
			if passcode == "" {
				return Result{}, app.Canceled("duo: empty passcode")
			}
		}

		txid, err := p.submit(ctx, choice, passcode)
		if err != nil {
			return Result{}, err
		}
		if txid == "" {
			return Result{}, invalidResponse("transaction id (txid) is expected but wasn't found")
		}

		final, err := mfa.Poll(ctx, poll, func(ctx context.Context, _ int) (pollState, bool, error) {
			state, err := p.status(ctx, txid)
			if err != nil {
				return pollState{}, false, err
			}
			updateUI(ui, state.status, state.text)
			return state, state.status != StatusInfo, nil
		})
		if err != nil {
			return Result{}, err
		}

		// wrong passcode, timeout, denied push: the UI already shows why
		if final.status == StatusError {
			continue
		}

		code, err := p.finish(ctx, txid, choice, final)
		if err != nil {
			return Result{}, err
		}

		return Result{Code: code, RememberMe: choice.RememberMe}, nil
	}
}

// baseURL turns a bare host into an https URL. Hosts that already carry a
// scheme are kept.
func baseURL(host string) string {
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

// queryParameter returns the value of name in rawURL's query.
func queryParameter(rawURL, name string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	v := u.Query().Get(name)
	return v, v != ""
}
