// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudcontrol"
)

// ErrListResourcesFailed is returned when Cloud Control cannot list a type.
var ErrListResourcesFailed = errors.New("failed to list resources")

// Resource is a Cloud Control resource description.
type Resource struct {
	TypeName   string
	Identifier string
	// Properties holds the raw JSON property document.
	Properties string
}

// ListResources lists every resource of a CloudFormation type name
// (e.g. AWS::EC2::VPC) via the Cloud Control API.
func ListResources(ctx context.Context, api cloudcontrol.ListResourcesAPIClient, typeName string) ([]Resource, error) {
	if api == nil {
		return nil, errors.New("cloudcontrol client is nil")
	}

	paginator := cloudcontrol.NewListResourcesPaginator(api, &cloudcontrol.ListResourcesInput{
		TypeName: &typeName,
	})

	var out []Resource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrListResourcesFailed, typeName, WrapAWSError(err, "list resources"))
		}
		for _, d := range page.ResourceDescriptions {
			out = append(out, Resource{
				TypeName:   typeName,
				Identifier: SafeString(d.Identifier),
				Properties: SafeString(d.Properties),
			})
		}
	}

	return out, nil
}
