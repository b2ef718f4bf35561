// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package duo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

const (
	v1Parent  = "https%3A%2F%2Fvault.bitwarden.com%2F%23%2F2fa"
	v1Version = "2.6"
)

// v1Factors maps the factor input values of the HTML frame.
var v1Factors = map[string]Factor{
	"Duo Push":   FactorPush,
	"Phone Call": FactorCall,
	"Passcode":   FactorPasscode,
}

// Authenticate runs the V1 frame flow against host with the provider
// supplied "TX:APP" signature. The returned code is "cookie:APP".
func Authenticate(
	ctx context.Context,
	host, signature string,
	ui UI,
	transport adapter.Transport,
	poll mfa.PollConfig,
) (Result, error) {
	tx, appPart, err := parseSignature(signature)
	if err != nil {
		return Result{}, err
	}

	rest, err := adapter.NewRestClient(transport, baseURL(host))
	if err != nil {
		return Result{}, err
	}

	doc, err := downloadFrame(ctx, rest, tx)
	if err != nil {
		return Result{}, err
	}

	sid, devices, err := parseFrame(doc)
	if err != nil {
		return Result{}, err
	}

	result, err := negotiate(ctx, &v1{rest: rest, sid: sid, ui: ui}, devices, ui, poll)
	if err != nil {
		return Result{}, err
	}

	result.Code = result.Code + ":" + appPart
	return result, nil
}

func parseSignature(signature string) (tx, app string, err error) {
	parts := strings.Split(signature, ":")
	if len(parts) != 2 {
		return "", "", invalidResponse("the signature is invalid or in an unsupported format")
	}
	return parts[0], parts[1], nil
}

func downloadFrame(ctx context.Context, rest *adapter.RestClient, tx string) (*goquery.Document, error) {
	endpoint := fmt.Sprintf("frame/web/v1/auth?tx=%s&parent=%s&v=%s", url.QueryEscape(tx), v1Parent, v1Version)

	resp, err := rest.PostForm(ctx, endpoint, url.Values{}, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, requestError(resp, "")
	}

	return parseHTML(resp.Body)
}

func parseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, invalidResponse("parse html: %v", err)
	}
	return doc, nil
}

// parseFrame extracts the session id and the devices with at least one
// supported factor.
func parseFrame(doc *goquery.Document) (string, []Device, error) {
	form := doc.Find("form#login-form").First()
	if form.Length() == 0 {
		return "", nil, invalidResponse("main form is not found")
	}

	sid, ok := form.Find("input[name='sid']").First().Attr("value")
	if !ok {
		return "", nil, invalidResponse("signature or devices are not found")
	}

	options := form.Find("select[name='device'] option")
	if options.Length() == 0 {
		return "", nil, invalidResponse("signature or devices are not found")
	}

	var (
		devices []Device
		bad     bool
	)
	options.Each(func(_ int, option *goquery.Selection) {
		id, ok := option.Attr("value")
		if !ok {
			bad = true
			return
		}

		factors := deviceFactors(form, id)
		if len(factors) == 0 {
			return
		}
		devices = append(devices, Device{ID: id, Name: strings.TrimSpace(option.Text()), Factors: factors})
	})
	if bad {
		return "", nil, invalidResponse("device without an id")
	}

	return sid, devices, nil
}

func deviceFactors(form *goquery.Selection, deviceID string) []Factor {
	fieldset := form.Find(fmt.Sprintf("fieldset[data-device-index='%s']", deviceID)).First()

	var factors []Factor
	fieldset.Find("input[name='factor']").Each(func(_ int, input *goquery.Selection) {
		if f, ok := v1Factors[input.AttrOr("value", "")]; ok {
			factors = append(factors, f)
		}
	})

	if fieldset.Find("input[name='phone-smsable'][value='true']").Length() > 0 {
		factors = append(factors, FactorSendPasscodesBySMS)
	}

	return factors
}

type v1 struct {
	rest *adapter.RestClient
	sid  string
	ui   UI
}

type v1Submit struct {
	TxID string `json:"txid"`
}

type v1Status struct {
	Result    string `json:"result"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
	Cookie    string `json:"cookie"`
}

func (p *v1) submit(ctx context.Context, choice Choice, passcode string) (string, error) {
	form := url.Values{
		"sid":    {p.sid},
		"device": {choice.Device.ID},
		"factor": {choice.Factor.parameter()},
	}
	if passcode != "" {
		form.Set("passcode", passcode)
	}

	r, err := postForm[v1Submit](ctx, p.rest, "frame/prompt", form, nil)
	if err != nil {
		return "", err
	}
	return r.TxID, nil
}

func (p *v1) status(ctx context.Context, txid string) (pollState, error) {
	r, err := postForm[v1Status](ctx, p.rest, "frame/status", url.Values{"sid": {p.sid}, "txid": {txid}}, nil)
	if err != nil {
		return pollState{}, err
	}

	return pollState{status: statusFromResult(r.Result), text: r.Status, resultURL: r.ResultURL}, nil
}

func (p *v1) finish(ctx context.Context, _ string, _ Choice, state pollState) (string, error) {
	if state.resultURL == "" {
		return "", invalidResponse("result URL (result_url) was expected but wasn't found")
	}

	r, err := postForm[v1Status](ctx, p.rest, state.resultURL, url.Values{"sid": {p.sid}}, nil)
	if err != nil {
		return "", err
	}
	updateUI(p.ui, statusFromResult(r.Result), r.Status)

	if r.Cookie == "" {
		return "", invalidResponse("authentication token expected in response but wasn't found")
	}
	return r.Cookie, nil
}
