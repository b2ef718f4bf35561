// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package duo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
)

// knownSystemProperties fill the empty inputs of the plugin form the way a
// desktop browser would.
var knownSystemProperties = map[string]string{
	"screen_resolution_width":  "2560",
	"screen_resolution_height": "1440",
	"color_depth":              "30",
	"is_cef_browser":           "false",
	"is_ipad_os":               "false",
	"is_user_verifying_platform_authenticator_available": "false",
	"react_support": "true",
}

// v4Factors maps the factor names of the prompt data.
var v4Factors = map[string]Factor{
	"Duo Push":            FactorPush,
	"Duo Mobile Passcode": FactorPasscode,
	"SMS Passcode":        FactorSendPasscodesBySMS,
	"Phone Call":          FactorCall,
}

// AuthenticateV4 runs the OIDC based flow starting at authURL. The
// returned code is the duo_code of the final redirect, State is its state
// parameter.
func AuthenticateV4(
	ctx context.Context,
	authURL string,
	ui UI,
	transport adapter.Transport,
	poll mfa.PollConfig,
) (Result, error) {
	rest, err := adapter.NewRestClient(transport, "")
	if err != nil {
		return Result{}, err
	}

	// 1. main page
	resp, err := rest.Get(ctx, authURL, nil)
	if err != nil {
		return Result{}, err
	}
	if !resp.IsSuccess() {
		return Result{}, requestError(resp, "")
	}

	doc, err := parseHTML(resp.Body)
	if err != nil {
		return Result{}, err
	}
	pageURL := resp.FinalURL

	// 2. browser properties, answers with the API host
	apiBase, cookies, err := submitSystemProperties(ctx, rest.WithCookies(resp.Cookies), doc, pageURL)
	if err != nil {
		return Result{}, err
	}

	sid, ok := queryParameter(pageURL, "sid")
	if !ok {
		return Result{}, invalidResponse("failed to find the session ID parameter in the URL")
	}

	xsrf := doc.Find("form#plugin_form input[name='_xsrf']").First().AttrOr("value", "")
	if xsrf == "" {
		return Result{}, invalidResponse("failed to find the 'xsrf' token")
	}

	api := rest.
		WithBaseURL(apiBase+"/frame/v4/").
		WithHeaders(map[string]string{"X-Xsrftoken": xsrf}).
		WithCookies(cookies)

	devices, err := fetchDevices(ctx, api, sid)
	if err != nil {
		return Result{}, err
	}

	p := &v4{rest: api, base: apiBase, sid: sid, xsrf: xsrf}
	result, err := negotiate(ctx, p, devices, ui, poll)
	if err != nil {
		return Result{}, err
	}

	result.State = p.state
	return result, nil
}

func submitSystemProperties(
	ctx context.Context,
	rest *adapter.RestClient,
	doc *goquery.Document,
	pageURL string,
) (string, map[string]string, error) {
	form := doc.Find("form#plugin_form").First()
	if form.Length() == 0 {
		return "", nil, invalidResponse("the main form is not found")
	}

	properties := url.Values{}
	form.ChildrenFiltered("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}

		value := input.AttrOr("value", "")
		if value == "" {
			value = knownSystemProperties[name]
		}
		properties.Set(name, value)
	})

	resp, err := rest.PostForm(ctx, pageURL, properties, nil)
	if err != nil {
		return "", nil, err
	}
	if !resp.IsSuccess() {
		return "", nil, requestError(resp, "")
	}

	u, err := url.Parse(resp.FinalURL)
	if err != nil || u.Host == "" {
		return "", nil, invalidResponse("unexpected final url %q", resp.FinalURL)
	}

	return u.Scheme + "://" + u.Host, resp.Cookies, nil
}

type v4PromptData struct {
	Phones []struct {
		Index string `json:"index"`
		Key   string `json:"key"`
		Name  string `json:"name"`
	} `json:"phones"`
	Methods []struct {
		DeviceKey string `json:"deviceKey"`
		Factor    string `json:"factor"`
	} `json:"auth_method_order"`
}

func fetchDevices(ctx context.Context, rest *adapter.RestClient, sid string) ([]Device, error) {
	resp, err := rest.Get(ctx, "auth/prompt/data?post_auth_action=OIDC_EXIT&sid="+url.QueryEscape(sid), nil)
	if err != nil {
		return nil, err
	}

	data, err := decodeEnvelope[v4PromptData](resp)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(data.Phones))
	for _, phone := range data.Phones {
		var factors []Factor
		for _, m := range data.Methods {
			if m.DeviceKey != phone.Key && m.DeviceKey != "" {
				continue
			}
			if f, ok := v4Factors[m.Factor]; ok {
				factors = append(factors, f)
			}
		}
		devices = append(devices, Device{ID: phone.Index, Name: phone.Name, Factors: factors})
	}

	return devices, nil
}

type v4 struct {
	rest *adapter.RestClient
	base string
	sid  string
	xsrf string

	// state of the final redirect, set by finish
	state string
}

type v4Submit struct {
	TxID string `json:"txid"`
}

type v4Status struct {
	Result     string `json:"result"`
	Reason     string `json:"reason"`
	StatusCode string `json:"status_code"`
}

func (p *v4) submit(ctx context.Context, choice Choice, passcode string) (string, error) {
	form := url.Values{
		"sid":                 {p.sid},
		"device":              {choice.Device.ID},
		"factor":              {choice.Factor.parameter()},
		"postAuthDestination": {"OIDC_EXIT"},
	}
	if passcode != "" {
		form.Set("passcode", passcode)
	}

	r, err := postForm[v4Submit](ctx, p.rest, "prompt", form, nil)
	if err != nil {
		return "", err
	}
	return r.TxID, nil
}

func (p *v4) status(ctx context.Context, txid string) (pollState, error) {
	headers := map[string]string{
		"Accept":         "*/*",
		"Referer":        fmt.Sprintf("%s/frame/v4/auth/prompt?sid=%s", p.base, url.QueryEscape(p.sid)),
		"Sec-Fetch-Dest": "empty",
		"Sec-Fetch-Mode": "cors",
		"Sec-Fetch-Site": "same-origin",
	}

	r, err := postForm[v4Status](ctx, p.rest, "status", url.Values{"sid": {p.sid}, "txid": {txid}}, headers)
	if err != nil {
		return pollState{}, err
	}

	text := r.Reason
	if text == "" {
		text = r.StatusCode
	}
	return pollState{status: statusFromResult(r.Result), text: text}, nil
}

func (p *v4) finish(ctx context.Context, txid string, choice Choice, _ pollState) (string, error) {
	form := url.Values{
		"sid":           {p.sid},
		"txid":          {txid},
		"factor":        {choice.Factor.parameter()},
		"device_key":    {choice.Device.ID},
		"_xsrf":         {p.xsrf},
		"dampen_choice": {"false"},
	}

	resp, err := p.rest.PostForm(ctx, "oidc/exit", form, nil)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", requestError(resp, "")
	}

	// the redirect carries duo_code or, for some integrations, code
	code, ok := queryParameter(resp.FinalURL, "duo_code")
	if !ok {
		code, ok = queryParameter(resp.FinalURL, "code")
	}
	if !ok {
		return "", invalidResponse("failed to find the 'duo_code' auth token")
	}

	p.state, _ = queryParameter(resp.FinalURL, "state")
	return code, nil
}
