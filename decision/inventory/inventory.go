// Package inventory compares a descriptor against every resource the
// provider's resource index knows about in a region.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"infra-check/decision/descriptor"
	"infra-check/decision/directory"
)

// ErrNoIndex is returned when the region has no resource index to search
var ErrNoIndex = errors.New("no Resource Explorer index in region")

// Inventory is the set of indexed resources in one region
type Inventory struct {
	Region    string               `json:"region"`
	Query     string               `json:"query"`
	Resources []directory.Resource `json:"resources"`
	Services  map[string]int       `json:"services"`
}

// ServiceNames returns the services present, sorted
func (inv *Inventory) ServiceNames() []string {
	names := make([]string, 0, len(inv.Services))
	for s := range inv.Services {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// Preflight checks that the region has at least one resource index
func Preflight(ctx context.Context, dir directory.Directory, region string) ([]directory.Index, error) {
	indexes, err := dir.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	inRegion := make([]directory.Index, 0, len(indexes))
	for _, idx := range indexes {
		if idx.Region == "" || idx.Region == region {
			inRegion = append(inRegion, idx)
		}
	}
	if len(inRegion) == 0 {
		return nil, fmt.Errorf("%w %s: create an index in that region and try again", ErrNoIndex, region)
	}
	return inRegion, nil
}

// Collect searches the index and keeps the resources located in region
func Collect(ctx context.Context, dir directory.Directory, region, query string) (*Inventory, error) {
	if query == "" {
		query = "*"
	}
	found, err := dir.SearchResources(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search resources: %w", err)
	}

	inv := &Inventory{
		Region:    region,
		Query:     query,
		Resources: make([]directory.Resource, 0, len(found)),
		Services:  make(map[string]int),
	}
	for _, r := range found {
		if r.Region == "" {
			r.Region = directory.RegionFromARN(r.ARN)
		}
		if r.Region != region {
			continue
		}
		if r.Name == "" {
			r.Name = directory.ResourceNameFromARN(r.ARN)
		}
		if r.ResourceType == "" {
			r.ResourceType = "Unknown"
		}
		inv.Services[ServiceOf(r.ResourceType)]++
		inv.Resources = append(inv.Resources, r)
	}
	return inv, nil
}

// ServiceOf returns the service prefix of a resource type ("ec2:instance" -> "ec2")
func ServiceOf(resourceType string) string {
	if i := strings.Index(resourceType, ":"); i >= 0 {
		return resourceType[:i]
	}
	return resourceType
}

// =============================================================================
// COMPARISON
// =============================================================================

// ComponentMatch lists the indexed resources that plausibly belong to a component
type ComponentMatch struct {
	Type    string               `json:"type"`
	Name    string               `json:"name"`
	Exists  bool                 `json:"exists"`
	Matches []directory.Resource `json:"matches"`
}

// CompareComponents matches top-level components against the inventory. A
// resource matches when its name equals the component name, its ARN contains
// the component name, or its type contains the component type, all
// case-insensitively. The type rule is loose and over-matches.
func CompareComponents(components []descriptor.Component, inv *Inventory) []ComponentMatch {
	out := make([]ComponentMatch, 0, len(components))
	for _, c := range components {
		name := strings.ToLower(c.Name)
		typ := strings.ToLower(c.Type)

		m := ComponentMatch{Type: c.Type, Name: c.Name, Matches: make([]directory.Resource, 0)}
		for _, r := range inv.Resources {
			rname := strings.ToLower(r.Name)
			switch {
			case name != "" && rname != "" && name == rname:
			case name != "" && r.ARN != "" && strings.Contains(strings.ToLower(r.ARN), name):
			case typ != "" && strings.Contains(strings.ToLower(r.ResourceType), typ):
			default:
				continue
			}
			m.Matches = append(m.Matches, r)
		}
		m.Exists = len(m.Matches) > 0
		out = append(out, m)
	}
	return out
}

// ARNMatch is the lookup result for one ARN declared in the descriptor
type ARNMatch struct {
	ARN     string              `json:"requested_arn"`
	Exists  bool                `json:"exists"`
	Matched *directory.Resource `json:"matched_resource"`
}

// CompareARNs looks each declared ARN up in the inventory. An exact match is
// tried first, then a suffix match in either direction since the index may
// hold partial ARNs.
func CompareARNs(arns []string, inv *Inventory) []ARNMatch {
	byARN := make(map[string]*directory.Resource, len(inv.Resources))
	for i := range inv.Resources {
		if arn := inv.Resources[i].ARN; arn != "" {
			if _, dup := byARN[arn]; !dup {
				byARN[arn] = &inv.Resources[i]
			}
		}
	}

	out := make([]ARNMatch, 0, len(arns))
	for _, arn := range arns {
		m := ARNMatch{ARN: arn, Matched: byARN[arn]}
		if m.Matched == nil {
			for i := range inv.Resources {
				existing := inv.Resources[i].ARN
				if existing == "" {
					continue
				}
				if strings.HasSuffix(arn, existing) || strings.HasSuffix(existing, arn) {
					m.Matched = &inv.Resources[i]
					break
				}
			}
		}
		m.Exists = m.Matched != nil
		out = append(out, m)
	}
	return out
}

// Comparison is the combined result of comparing a descriptor with an inventory
type Comparison struct {
	DescriptorRegion string           `json:"yaml_region,omitempty"`
	Region           string           `json:"use_region"`
	ARNs             []ARNMatch       `json:"arn_comparison"`
	Components       []ComponentMatch `json:"components"`
}

// Compare runs both comparisons for doc
func Compare(doc *descriptor.Document, inv *Inventory) *Comparison {
	return &Comparison{
		DescriptorRegion: doc.Region,
		Region:           inv.Region,
		ARNs:             CompareARNs(doc.ARNs, inv),
		Components:       CompareComponents(doc.Components, inv),
	}
}
