// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rxnav implements a client for the National Library of
// Medicine's RxNav REST API, used to confirm candidate medication
// names against the RxNorm drug database.
package rxnav

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medivision/medscan/internal/httputil"
	"github.com/medivision/medscan/pkg/types"
)

// apiBase is the RxNav REST root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://rxnav.nlm.nih.gov/REST"

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "medscan/0.1"
)

// Client queries RxNav. The API is public and unauthenticated but
// rate-limited; requests go through the shared 429 backoff helper.
type Client struct {
	client     *http.Client
	userAgent  string
	maxRetries int
}

// New builds a Client from configuration, applying defaults for the
// timeout and User-Agent.
func New(cfg types.ValidatorConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// LookupDrug resolves a free-text name against RxNorm. The first
// concept of the first non-empty concept group is taken as the match;
// found is false when RxNorm has no record for the name.
func (c *Client) LookupDrug(ctx context.Context, name string) (types.DrugConcept, bool, error) {
	reqURL := apiBase + "/drugs.json?name=" + url.QueryEscape(name)

	var dr drugsResponse
	if err := c.get(ctx, reqURL, &dr); err != nil {
		return types.DrugConcept{}, false, err
	}

	for _, group := range dr.DrugGroup.ConceptGroup {
		if len(group.ConceptProperties) == 0 {
			continue
		}
		prop := group.ConceptProperties[0]
		return types.DrugConcept{
			RxCUI:   prop.RxCUI,
			Name:    prop.Name,
			Synonym: prop.Synonym,
		}, true, nil
	}
	return types.DrugConcept{}, false, nil
}

// LookupIngredients returns the active ingredient names related to an
// RxNorm concept.
func (c *Client) LookupIngredients(ctx context.Context, rxcui string) ([]string, error) {
	reqURL := apiBase + "/rxcui/" + url.PathEscape(rxcui) + "/related.json?tty=IN"

	var rr relatedResponse
	if err := c.get(ctx, reqURL, &rr); err != nil {
		return nil, err
	}

	var ingredients []string
	for _, group := range rr.RelatedGroup.ConceptGroup {
		if group.TTY != "IN" {
			continue
		}
		for _, prop := range group.ConceptProperties {
			if prop.Name != "" {
				ingredients = append(ingredients, prop.Name)
			}
		}
	}
	return ingredients, nil
}

// LookupDrugClass returns the MED-RT therapeutic class for a drug
// name, e.g. "Nonsteroidal Anti-inflammatory Drug".
func (c *Client) LookupDrugClass(ctx context.Context, name string) (string, bool, error) {
	params := url.Values{
		"drugName":   {name},
		"relaSource": {"MEDRT"},
	}
	reqURL := apiBase + "/rxclass/class/byDrugName.json?" + params.Encode()

	var cr classResponse
	if err := c.get(ctx, reqURL, &cr); err != nil {
		return "", false, err
	}

	for _, info := range cr.RxClassDrugInfoList.RxClassDrugInfo {
		if class := strings.TrimSpace(info.RxClassMinConceptItem.ClassName); class != "" {
			return class, true, nil
		}
	}
	return "", false, nil
}

// get performs a GET with retry-on-429 and decodes the JSON body.
func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("RxNav API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RxNav API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing RxNav response: %w", err)
	}
	return nil
}

// RxNav API JSON structures.
type drugsResponse struct {
	DrugGroup drugGroup `json:"drugGroup"`
}

type drugGroup struct {
	ConceptGroup []conceptGroup `json:"conceptGroup"`
}

type conceptGroup struct {
	TTY               string            `json:"tty"`
	ConceptProperties []conceptProperty `json:"conceptProperties"`
}

type conceptProperty struct {
	RxCUI    string `json:"rxcui"`
	Name     string `json:"name"`
	Synonym  string `json:"synonym"`
	TTY      string `json:"tty"`
	Language string `json:"language"`
}

type relatedResponse struct {
	RelatedGroup relatedGroup `json:"relatedGroup"`
}

type relatedGroup struct {
	ConceptGroup []conceptGroup `json:"conceptGroup"`
}

type classResponse struct {
	RxClassDrugInfoList rxClassDrugInfoList `json:"rxclassDrugInfoList"`
}

type rxClassDrugInfoList struct {
	RxClassDrugInfo []rxClassDrugInfo `json:"rxclassDrugInfo"`
}

type rxClassDrugInfo struct {
	RxClassMinConceptItem rxClassMinConceptItem `json:"rxclassMinConceptItem"`
}

type rxClassMinConceptItem struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	ClassType string `json:"classType"`
}
