package dao

import (
	"context"
	"fmt"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/table"
	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
	"github.com/tidwall/gjson"
)

// Resource is a Cloud Control resource row. Besides identifier, type and
// region, any gjson path into the resource properties is a valid field,
// e.g. "CidrBlock" or "Tags.#(Key==\"Name\").Value".
type Resource struct {
	Region     string
	TypeName   string
	Identifier string
	Properties string
}

// ResourceColumns returns the default resource columns, extended with one
// column per property path.
func ResourceColumns(paths ...string) (table.Columns, error) {
	cc := []table.Column{
		table.NewColumnBuilder("IDENTIFIER").DataProperty("identifier").Orderable(true).Build(),
		table.NewColumnBuilder("TYPE").DataProperty("type").Build(),
		table.NewColumnBuilder("REGION").DataProperty("region").Orderable(true).Build(),
	}
	for _, p := range paths {
		cc = append(cc, table.NewColumnBuilder(p).DataProperty(p).Orderable(true).Build())
	}

	return table.NewColumns(cc...)
}

// Display returns the display form of a field.
func (r Resource) Display(field string) (table.Cell, error) {
	switch field {
	case "identifier":
		return text(r.Identifier), nil
	case "type":
		return text(r.TypeName), nil
	case "region":
		return text(r.Region), nil
	case "properties":
		return text(r.Properties), nil
	}

	res, err := r.lookup(field)
	if err != nil {
		return table.Cell{}, err
	}
	switch res.Type {
	case gjson.Number:
		return table.NumberCell(res.String()), nil
	case gjson.True, gjson.False:
		return table.CheckCell(res.Bool()), nil
	default:
		return text(res.String()), nil
	}
}

// SortKey returns the sort key of a field.
func (r Resource) SortKey(field string) (table.Value, error) {
	switch field {
	case "identifier":
		return table.String(r.Identifier), nil
	case "type":
		return table.String(r.TypeName), nil
	case "region":
		return table.String(r.Region), nil
	case "properties":
		return table.Null(), table.NonRenderable(field)
	}

	res, err := r.lookup(field)
	if err != nil {
		return table.Null(), err
	}

	return gjsonValue(res), nil
}

// MatchesSearch matches the identifier and the raw properties.
func (r Resource) MatchesSearch(needle string) bool {
	return table.ContainsFold(r.Identifier, needle) || table.ContainsFold(r.Properties, needle)
}

func (r Resource) lookup(path string) (gjson.Result, error) {
	if path == "" {
		return gjson.Result{}, table.InvalidField(path)
	}

	return gjson.Get(r.Properties, path), nil
}

func gjsonValue(res gjson.Result) table.Value {
	switch res.Type {
	case gjson.Number:
		if float64(res.Int()) == res.Num {
			return table.Int(res.Int())
		}
		return table.Float(res.Num)
	case gjson.True, gjson.False:
		return table.Bool(res.Bool())
	case gjson.String:
		return table.String(res.Str)
	case gjson.JSON:
		return table.String(res.Raw)
	default:
		return table.Null()
	}
}

// Resources lists Cloud Control resources of a type in a region.
type Resources struct {
	api      cloudcontrol.ListResourcesAPIClient
	typeName string
	region   string
}

// NewResources returns a new resource source.
func NewResources(api cloudcontrol.ListResourcesAPIClient, typeName, region string) *Resources {
	return &Resources{api: api, typeName: typeName, region: region}
}

// List returns every resource of the source type.
func (s *Resources) List(ctx context.Context) ([]Resource, error) {
	if s.api == nil {
		return nil, fmt.Errorf("failed to get CloudControl client for region %s", s.region)
	}
	rr, err := aws.ListResources(ctx, s.api, s.typeName)
	if err != nil {
		return nil, err
	}

	out := make([]Resource, 0, len(rr))
	for _, r := range rr {
		out = append(out, Resource{
			Region:     s.region,
			TypeName:   r.TypeName,
			Identifier: r.Identifier,
			Properties: r.Properties,
		})
	}

	return out, nil
}
