// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"encoding/xml"
	"strconv"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
)

type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []xmlElement `xml:",any"`
}

func (e *xmlElement) attrs() map[string]string {
	out := make(map[string]string, len(e.Attrs))
	for _, a := range e.Attrs {
		out[a.Name.Local] = a.Value
	}
	return out
}

// find returns the root when it is named name, otherwise its first child
// with that name.
func (e *xmlElement) find(name string) *xmlElement {
	if e.XMLName.Local == name {
		return e
	}
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i]
		}
	}
	return nil
}

func parseXML(resp *adapter.Response) (*xmlElement, error) {
	var root xmlElement
	if err := xml.Unmarshal(resp.Body, &root); err != nil {
		if !resp.IsSuccess() {
			return nil, adapter.MapHTTPError(resp)
		}
		return nil, ErrInvalidXML
	}
	return &root, nil
}

// loginResponse is one answer of login.php: either <ok/> with a session or
// <error/> with a cause and its parameters.
type loginResponse struct {
	url        string
	statusCode int

	ok   map[string]string
	fail map[string]string
}

func parseLoginResponse(resp *adapter.Response) (*loginResponse, error) {
	root, err := parseXML(resp)
	if err != nil {
		return nil, err
	}

	out := &loginResponse{url: resp.RequestURL, statusCode: resp.StatusCode}
	if ok := root.find("ok"); ok != nil {
		out.ok = ok.attrs()
		return out, nil
	}
	if fail := root.find("error"); fail != nil {
		out.fail = fail.attrs()
		return out, nil
	}

	return nil, ErrInvalidXML
}

func (r *loginResponse) isOK() bool { return r.ok != nil }

func (r *loginResponse) errorAttr(name string) string {
	return r.fail[name]
}

func (r *loginResponse) session() (Session, error) {
	s := Session{
		ID:         r.ok["sessionid"],
		Token:      r.ok["token"],
		PrivateKey: r.ok["privatekeyenc"],
	}
	if s.ID == "" {
		return Session{}, missingParameter("sessionid")
	}
	if v, ok := r.ok["iterations"]; ok {
		s.Iterations, _ = strconv.Atoi(v)
	}
	return s, nil
}

// iterationsHint and serverHint are the two answers that replay the login
// request with corrected parameters.
func (r *loginResponse) iterationsHint() (int, bool) {
	v, ok := r.fail["iterations"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (r *loginResponse) serverHint() (string, bool) {
	v := r.fail["server"]
	return v, v != ""
}

// duoPasscode extracts the code of the <ok code=""/> answer of duo.php.
// The element must be the root.
func duoPasscode(resp *adapter.Response) (string, error) {
	root, err := parseXML(resp)
	if err != nil {
		return "", err
	}
	if root.XMLName.Local != "ok" {
		return "", ErrInvalidXML
	}
	code := root.attrs()["code"]
	if code == "" {
		return "", missingParameter("code")
	}
	return code, nil
}
