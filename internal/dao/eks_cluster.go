package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/eks/types"
)

// EKSCluster is an EKS cluster row.
type EKSCluster struct {
	Region    string
	Name      string
	Version   string
	Status    string
	Platform  string
	VpcID     string
	Public    bool
	CreatedAt time.Time
}

var eksClusterFields = newFields(
	[]string{"region", "name", "version", "status", "platform", "vpc", "public", "age"},
	field[EKSCluster]{
		title:   "REGION",
		display: func(c EKSCluster) table.Cell { return text(c.Region) },
		key:     func(c EKSCluster) table.Value { return table.String(c.Region) },
	},
	field[EKSCluster]{
		title:   "NAME",
		display: func(c EKSCluster) table.Cell { return text(c.Name) },
		key:     func(c EKSCluster) table.Value { return table.String(c.Name) },
	},
	field[EKSCluster]{
		title:   "VERSION",
		display: func(c EKSCluster) table.Cell { return text(c.Version) },
		key:     func(c EKSCluster) table.Value { return table.String(c.Version) },
	},
	field[EKSCluster]{
		title:   "STATUS",
		display: func(c EKSCluster) table.Cell { return text(c.Status) },
		key:     func(c EKSCluster) table.Value { return table.String(c.Status) },
	},
	field[EKSCluster]{
		title:   "PLATFORM",
		display: func(c EKSCluster) table.Cell { return text(render.NA(c.Platform)) },
		key:     func(c EKSCluster) table.Value { return table.String(c.Platform) },
	},
	field[EKSCluster]{
		title:   "VPC-ID",
		display: func(c EKSCluster) table.Cell { return text(c.VpcID) },
		key:     func(c EKSCluster) table.Value { return table.String(c.VpcID) },
	},
	field[EKSCluster]{
		title:   "PUBLIC",
		display: func(c EKSCluster) table.Cell { return table.CheckCell(c.Public) },
		key:     func(c EKSCluster) table.Value { return table.Bool(c.Public) },
	},
	field[EKSCluster]{
		title:   "AGE",
		display: func(c EKSCluster) table.Cell { return table.NumberCell(render.ToAge(c.CreatedAt)) },
		key:     func(c EKSCluster) table.Value { return table.Time(c.CreatedAt) },
	},
)

// EKSClusterColumns returns the default EKS cluster columns.
func EKSClusterColumns() table.Columns {
	return eksClusterFields.columns()
}

// Display returns the display form of a field.
func (c EKSCluster) Display(field string) (table.Cell, error) {
	return eksClusterFields.display(c, field)
}

// SortKey returns the sort key of a field.
func (c EKSCluster) SortKey(field string) (table.Value, error) {
	return eksClusterFields.sortKey(c, field)
}

// MatchesSearch returns true if any column contains the needle.
func (c EKSCluster) MatchesSearch(needle string) bool {
	return eksClusterFields.matches(c, needle)
}

// EKSAPI is the subset of the EKS API used to list clusters.
type EKSAPI interface {
	eks.ListClustersAPIClient
	DescribeCluster(ctx context.Context, in *eks.DescribeClusterInput, opts ...func(*eks.Options)) (*eks.DescribeClusterOutput, error)
}

// EKSClusters lists the clusters of a region.
type EKSClusters struct {
	api    EKSAPI
	region string
}

// NewEKSClusters returns a new cluster source.
func NewEKSClusters(api EKSAPI, region string) *EKSClusters {
	return &EKSClusters{api: api, region: region}
}

// List returns all EKS clusters in the source region.
func (s *EKSClusters) List(ctx context.Context) ([]EKSCluster, error) {
	if s.api == nil {
		return nil, fmt.Errorf("failed to get EKS client for region %s", s.region)
	}

	paginator := eks.NewListClustersPaginator(s.api, &eks.ListClustersInput{})

	var clusters []EKSCluster
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, aws.WrapAWSError(err, "list clusters")
		}

		// For each cluster name, fetch detailed information
		for _, name := range output.Clusters {
			out, err := s.api.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: &name})
			if err != nil {
				return nil, aws.WrapAWSError(err, "describe cluster "+name)
			}
			if out.Cluster != nil {
				clusters = append(clusters, clusterToRow(out.Cluster, s.region))
			}
		}
	}

	return clusters, nil
}

func clusterToRow(cluster *types.Cluster, region string) EKSCluster {
	row := EKSCluster{
		Region:   region,
		Name:     aws.SafeString(cluster.Name),
		Version:  aws.SafeString(cluster.Version),
		Status:   string(cluster.Status),
		Platform: aws.SafeString(cluster.PlatformVersion),
	}
	if cluster.ResourcesVpcConfig != nil {
		row.VpcID = aws.SafeString(cluster.ResourcesVpcConfig.VpcId)
		row.Public = cluster.ResourcesVpcConfig.EndpointPublicAccess
	}
	if cluster.CreatedAt != nil {
		row.CreatedAt = *cluster.CreatedAt
	}

	return row
}
