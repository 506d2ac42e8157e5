// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package dao

import (
	"context"
	"time"

	"github.com/a1s/tabula/internal/aws"
)

// Factory builds row sources off an AWS connection.
type Factory struct {
	client aws.Connection
	ttl    time.Duration
}

// NewFactory creates a new Factory with the given client. Listings are
// cached for ttl.
func NewFactory(client aws.Connection, ttl time.Duration) *Factory {
	return &Factory{client: client, ttl: ttl}
}

// Client returns the AWS connection.
func (f *Factory) Client() aws.Connection {
	return f.client
}

// Region returns the active region.
func (f *Factory) Region() string {
	return f.client.ActiveRegion()
}

// EC2Instances returns the instance lister of the active region.
func (f *Factory) EC2Instances() Lister[EC2Instance] {
	region := f.Region()
	client := f.client.EC2(region)
	if client == nil {
		return NewEC2Instances(nil, region)
	}
	return NewCachedLister[EC2Instance](NewEC2Instances(client, region), f.ttl)
}

// S3Objects returns the object lister of a "bucket/prefix/" path.
func (f *Factory) S3Objects(ctx context.Context, path string, recursive bool) (Lister[S3Object], error) {
	bucket, _ := parseListPath(path)
	region := aws.DefaultRegion
	if c := f.client.S3(); c != nil && bucket != "" {
		if r, err := aws.BucketRegion(ctx, c, bucket); err == nil {
			region = r
		}
	}

	client := f.client.S3Regional(region)
	var src *S3Objects
	var err error
	if client == nil {
		src, err = NewS3Objects(nil, path, recursive)
	} else {
		src, err = NewS3Objects(client, path, recursive)
	}
	if err != nil {
		return nil, err
	}

	return NewCachedLister[S3Object](src, f.ttl), nil
}

// IAMUsers returns the account's user lister.
func (f *Factory) IAMUsers() Lister[IAMUser] {
	client := f.client.IAM()
	if client == nil {
		return NewIAMUsers(nil)
	}
	return NewCachedLister[IAMUser](NewIAMUsers(client), f.ttl)
}

// EKSClusters returns the cluster lister of the active region.
func (f *Factory) EKSClusters() Lister[EKSCluster] {
	region := f.Region()
	client := f.client.EKS(region)
	if client == nil {
		return NewEKSClusters(nil, region)
	}
	return NewCachedLister[EKSCluster](NewEKSClusters(client, region), f.ttl)
}

// Stacks returns the stack lister of the active region.
func (f *Factory) Stacks() Lister[Stack] {
	region := f.Region()
	client := f.client.CloudFormation(region)
	if client == nil {
		return NewStacks(nil, region)
	}
	return NewCachedLister[Stack](NewStacks(client, region), f.ttl)
}

// Resources returns the Cloud Control lister of a type in the active region.
func (f *Factory) Resources(typeName string) Lister[Resource] {
	region := f.Region()
	client := f.client.CloudControl(region)
	if client == nil {
		return NewResources(nil, typeName, region)
	}
	return NewCachedLister[Resource](NewResources(client, typeName, region), f.ttl)
}
