package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// Stack is a CloudFormation stack row.
type Stack struct {
	Region      string
	Name        string
	Status      string
	Description string
	Drift       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var stackFields = newFields(
	[]string{"region", "name", "status", "drift", "description", "created", "updated"},
	field[Stack]{
		title:   "REGION",
		display: func(s Stack) table.Cell { return text(s.Region) },
		key:     func(s Stack) table.Value { return table.String(s.Region) },
	},
	field[Stack]{
		title:   "NAME",
		display: func(s Stack) table.Cell { return text(s.Name) },
		key:     func(s Stack) table.Value { return table.String(s.Name) },
	},
	field[Stack]{
		title:   "STATUS",
		display: func(s Stack) table.Cell { return text(s.Status) },
		key:     func(s Stack) table.Value { return table.String(s.Status) },
	},
	field[Stack]{
		title:   "DRIFT",
		display: func(s Stack) table.Cell { return text(render.NA(s.Drift)) },
		key:     func(s Stack) table.Value { return table.String(s.Drift) },
	},
	field[Stack]{
		title:   "DESCRIPTION",
		display: func(s Stack) table.Cell { return text(render.Truncate(s.Description, 60)) },
	},
	field[Stack]{
		title:   "CREATED",
		display: func(s Stack) table.Cell { return text(render.FormatTime(s.CreatedAt)) },
		key:     func(s Stack) table.Value { return table.Time(s.CreatedAt) },
	},
	field[Stack]{
		title:   "UPDATED",
		display: func(s Stack) table.Cell { return table.NumberCell(render.ToAge(s.UpdatedAt)) },
		key:     func(s Stack) table.Value { return timeOrNull(s.UpdatedAt) },
	},
)

// StackColumns returns the default stack columns.
func StackColumns() table.Columns {
	return stackFields.columns()
}

// Display returns the display form of a field.
func (s Stack) Display(field string) (table.Cell, error) {
	return stackFields.display(s, field)
}

// SortKey returns the sort key of a field.
func (s Stack) SortKey(field string) (table.Value, error) {
	return stackFields.sortKey(s, field)
}

// MatchesSearch returns true if any column contains the needle.
func (s Stack) MatchesSearch(needle string) bool {
	return stackFields.matches(s, needle)
}

// Failed returns true if the stack is in a failed or rolled back state.
func (s Stack) Failed() bool {
	return strings.HasSuffix(s.Status, "_FAILED") || strings.Contains(s.Status, "ROLLBACK")
}

// Stacks lists the CloudFormation stacks of a region.
type Stacks struct {
	api    cloudformation.DescribeStacksAPIClient
	region string
}

// NewStacks returns a new stack source.
func NewStacks(api cloudformation.DescribeStacksAPIClient, region string) *Stacks {
	return &Stacks{api: api, region: region}
}

// List returns all stacks in the source region.
func (s *Stacks) List(ctx context.Context) ([]Stack, error) {
	if s.api == nil {
		return nil, fmt.Errorf("failed to get CloudFormation client for region %s", s.region)
	}

	paginator := cloudformation.NewDescribeStacksPaginator(s.api, &cloudformation.DescribeStacksInput{})

	var stacks []Stack
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "describe stacks")
		}
		for _, st := range output.Stacks {
			stacks = append(stacks, stackToRow(st, s.region))
		}
	}

	return stacks, nil
}

func stackToRow(st types.Stack, region string) Stack {
	row := Stack{
		Region:      region,
		Name:        aws.SafeString(st.StackName),
		Status:      string(st.StackStatus),
		Description: aws.SafeString(st.Description),
	}
	if st.DriftInformation != nil {
		row.Drift = string(st.DriftInformation.StackDriftStatus)
	}
	if st.CreationTime != nil {
		row.CreatedAt = *st.CreationTime
	}
	if st.LastUpdatedTime != nil {
		row.UpdatedAt = *st.LastUpdatedTime
	}

	return row
}
