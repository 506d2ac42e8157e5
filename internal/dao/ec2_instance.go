package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EC2Instance is an EC2 instance row.
type EC2Instance struct {
	Region     string
	ID         string
	Name       string
	Type       string
	State      string
	AZ         string
	PrivateIP  string
	PublicIP   string
	VpcID      string
	Issues     string
	LaunchedAt time.Time
}

var ec2InstanceFields = newFields(
	[]string{"region", "id", "name", "type", "state", "az", "privateIp", "publicIp", "vpc", "issues", "age"},
	field[EC2Instance]{
		title:   "REGION",
		display: func(i EC2Instance) table.Cell { return text(i.Region) },
		key:     func(i EC2Instance) table.Value { return table.String(i.Region) },
	},
	field[EC2Instance]{
		title:   "INSTANCE-ID",
		display: func(i EC2Instance) table.Cell { return text(i.ID) },
		key:     func(i EC2Instance) table.Value { return table.String(i.ID) },
	},
	field[EC2Instance]{
		title:   "NAME",
		display: func(i EC2Instance) table.Cell { return text(render.NA(i.Name)) },
		key:     func(i EC2Instance) table.Value { return table.String(i.Name) },
	},
	field[EC2Instance]{
		title:   "TYPE",
		display: func(i EC2Instance) table.Cell { return text(i.Type) },
		key:     func(i EC2Instance) table.Value { return table.String(i.Type) },
	},
	field[EC2Instance]{
		title:   "STATE",
		display: func(i EC2Instance) table.Cell { return text(i.State) },
		key:     func(i EC2Instance) table.Value { return table.String(i.State) },
	},
	field[EC2Instance]{
		title:   "AZ",
		display: func(i EC2Instance) table.Cell { return text(render.NA(i.AZ)) },
		key:     func(i EC2Instance) table.Value { return table.String(i.AZ) },
	},
	field[EC2Instance]{
		title:   "PRIVATE-IP",
		display: func(i EC2Instance) table.Cell { return text(i.PrivateIP) },
		key:     func(i EC2Instance) table.Value { return table.String(i.PrivateIP) },
	},
	field[EC2Instance]{
		title:   "PUBLIC-IP",
		display: func(i EC2Instance) table.Cell { return text(i.PublicIP) },
		key:     func(i EC2Instance) table.Value { return table.String(i.PublicIP) },
	},
	field[EC2Instance]{
		title:   "VPC-ID",
		display: func(i EC2Instance) table.Cell { return text(i.VpcID) },
		key:     func(i EC2Instance) table.Value { return table.String(i.VpcID) },
	},
	field[EC2Instance]{
		title:   "ISSUES",
		display: func(i EC2Instance) table.Cell { return text(i.Issues) },
	},
	field[EC2Instance]{
		title:   "AGE",
		display: func(i EC2Instance) table.Cell { return table.NumberCell(render.ToAge(i.LaunchedAt)) },
		key:     func(i EC2Instance) table.Value { return table.Time(i.LaunchedAt) },
	},
)

// EC2InstanceColumns returns the default EC2 instance columns.
func EC2InstanceColumns() table.Columns {
	return ec2InstanceFields.columns()
}

// Display returns the display form of a field.
func (i EC2Instance) Display(field string) (table.Cell, error) {
	return ec2InstanceFields.display(i, field)
}

// SortKey returns the sort key of a field.
func (i EC2Instance) SortKey(field string) (table.Value, error) {
	return ec2InstanceFields.sortKey(i, field)
}

// MatchesSearch returns true if any column contains the needle.
func (i EC2Instance) MatchesSearch(needle string) bool {
	return ec2InstanceFields.matches(i, needle)
}

// EC2Instances lists the instances of a region.
type EC2Instances struct {
	api    ec2.DescribeInstancesAPIClient
	region string
}

// NewEC2Instances returns a new instance source.
func NewEC2Instances(api ec2.DescribeInstancesAPIClient, region string) *EC2Instances {
	return &EC2Instances{api: api, region: region}
}

// List returns all EC2 instances in the source region.
func (e *EC2Instances) List(ctx context.Context) ([]EC2Instance, error) {
	if e.api == nil {
		return nil, fmt.Errorf("failed to get EC2 client for region %s", e.region)
	}

	paginator := ec2.NewDescribeInstancesPaginator(e.api, &ec2.DescribeInstancesInput{})

	var instances []EC2Instance
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "describe instances")
		}

		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, instanceToRow(instance, e.region))
			}
		}
	}

	return instances, nil
}

func instanceToRow(instance types.Instance, region string) EC2Instance {
	row := EC2Instance{
		Region:    region,
		ID:        aws.SafeString(instance.InstanceId),
		Type:      string(instance.InstanceType),
		PrivateIP: aws.SafeString(instance.PrivateIpAddress),
		PublicIP:  aws.SafeString(instance.PublicIpAddress),
		VpcID:     aws.SafeString(instance.VpcId),
		Issues:    validate(instance),
	}
	if instance.State != nil {
		row.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		row.AZ = aws.SafeString(instance.Placement.AvailabilityZone)
	}
	if instance.LaunchTime != nil {
		row.LaunchedAt = *instance.LaunchTime
	}
	for _, tag := range instance.Tags {
		if aws.SafeString(tag.Key) == "Name" {
			row.Name = aws.SafeString(tag.Value)
		}
	}

	return row
}

// validate checks instance for security issues.
func validate(instance types.Instance) string {
	var issues []string
	if instance.MetadataOptions != nil && instance.MetadataOptions.HttpTokens == types.HttpTokensStateOptional {
		issues = append(issues, "imdsv1-enabled")
	}

	return render.JoinStrings(",", issues...)
}
