package dao

import (
	"fmt"
	"slices"
	"strings"

	"github.com/a1s/tabula/internal/table"
)

// ResourceID identifies an AWS resource type.
type ResourceID struct {
	Service  string // e.g., "ec2", "s3", "iam", "eks"
	Resource string // e.g., "instance", "object", "user", "cluster"
}

// String returns a string representation in the form "service/resource".
func (r ResourceID) String() string {
	return fmt.Sprintf("%s/%s", r.Service, r.Resource)
}

// Parse parses a string in the form "service/resource" into a ResourceID.
func (r *ResourceID) Parse(s string) error {
	service, resource, ok := strings.Cut(s, "/")
	if !ok || service == "" || resource == "" || strings.Contains(resource, "/") {
		return fmt.Errorf("invalid resource ID format: %s (expected service/resource)", s)
	}
	r.Service = service
	r.Resource = resource
	return nil
}

// Predefined ResourceID variables for the supported inventories.
var (
	EC2InstanceRID = ResourceID{Service: "ec2", Resource: "instance"}
	S3ObjectRID    = ResourceID{Service: "s3", Resource: "object"}
	IAMUserRID     = ResourceID{Service: "iam", Resource: "user"}
	EKSClusterRID  = ResourceID{Service: "eks", Resource: "cluster"}
	StackRID       = ResourceID{Service: "cloudformation", Resource: "stack"}
	ProfileRID     = ResourceID{Service: "aws", Resource: "profile"}
)

// CloudFormationType maps ResourceID strings to CloudFormation type names for Cloud Control API.
var CloudFormationType = map[string]string{
	"ec2/instance":      "AWS::EC2::Instance",
	"ec2/volume":        "AWS::EC2::Volume",
	"vpc/securitygroup": "AWS::EC2::SecurityGroup",
	"vpc/vpc":           "AWS::EC2::VPC",
	"vpc/subnet":        "AWS::EC2::Subnet",
	"s3/bucket":         "AWS::S3::Bucket",
	"iam/user":          "AWS::IAM::User",
	"iam/role":          "AWS::IAM::Role",
	"iam/policy":        "AWS::IAM::ManagedPolicy",
	"eks/cluster":       "AWS::EKS::Cluster",
	"eks/nodegroup":     "AWS::EKS::Nodegroup",
	"lambda/function":   "AWS::Lambda::Function",
	"sqs/queue":         "AWS::SQS::Queue",
}

// ResolveTypeName accepts either a service/resource alias or a full
// CloudFormation type name and returns the type name.
func ResolveTypeName(s string) (string, error) {
	if strings.Contains(s, "::") {
		return s, nil
	}
	var rid ResourceID
	if err := rid.Parse(s); err != nil {
		return "", err
	}
	cfType, ok := CloudFormationType[rid.String()]
	if !ok {
		return "", fmt.Errorf("no CloudFormation type for %s", rid)
	}

	return cfType, nil
}

// TypeAliases returns the known service/resource aliases, sorted.
func TypeAliases() []string {
	out := make([]string, 0, len(CloudFormationType))
	for k := range CloudFormationType {
		out = append(out, k)
	}
	slices.Sort(out)

	return out
}

// field describes how a typed row exposes one of its attributes.
type field[T any] struct {
	title   string
	display func(T) table.Cell
	key     func(T) table.Value
}

// fields is an ordered lookup table of row attributes.
type fields[T any] struct {
	names []string
	index map[string]field[T]
}

func newFields[T any](names []string, ff ...field[T]) fields[T] {
	if len(names) != len(ff) {
		panic("dao: field names and definitions differ in length")
	}
	index := make(map[string]field[T], len(ff))
	for i, n := range names {
		index[n] = ff[i]
	}

	return fields[T]{names: names, index: index}
}

func (f fields[T]) display(row T, name string) (table.Cell, error) {
	fd, ok := f.index[name]
	if !ok {
		return table.Cell{}, table.InvalidField(name)
	}
	return fd.display(row), nil
}

func (f fields[T]) sortKey(row T, name string) (table.Value, error) {
	fd, ok := f.index[name]
	if !ok {
		return table.Null(), table.InvalidField(name)
	}
	if fd.key == nil {
		return table.Null(), table.NonRenderable(name)
	}
	return fd.key(row), nil
}

// columns returns the default registry, one orderable column per field.
func (f fields[T]) columns() table.Columns {
	cc := make([]table.Column, 0, len(f.names))
	for _, n := range f.names {
		fd := f.index[n]
		cc = append(cc, table.NewColumnBuilder(fd.title).
			DataProperty(n).
			Orderable(fd.key != nil).
			Build())
	}

	return table.MustColumns(cc...)
}

// matches returns true if any displayed field contains the needle.
// Flags render as checkboxes and never match.
func (f fields[T]) matches(row T, needle string) bool {
	if needle == "" {
		return true
	}
	for _, n := range f.names {
		fd := f.index[n]
		if fd.key != nil && fd.key(row).Kind() == table.KindBool {
			continue
		}
		if table.ContainsFold(fd.display(row).Text, needle) {
			return true
		}
	}

	return false
}

func text(s string) table.Cell {
	return table.TextCell(s)
}
