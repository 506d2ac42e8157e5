package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a1s/tabula/internal/aws"
	"github.com/a1s/tabula/internal/config"
	"github.com/a1s/tabula/internal/dao"
	"github.com/a1s/tabula/internal/model"
	"github.com/a1s/tabula/internal/table"
)

var (
	recursive  bool
	properties []string

	awsCmd = &cobra.Command{
		Use:   "aws",
		Short: "Show AWS listings as tables",
	}
	s3Cmd = &cobra.Command{
		Use:   "s3 [BUCKET[/PREFIX/]]",
		Short: "List buckets, or the objects under a prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, s *session, args []string) error {
			f, err := s.daoFactory()
			if err != nil {
				return err
			}
			path := ""
			if len(args) > 0 {
				path = strings.TrimPrefix(args[0], "s3://")
			}
			src, err := f.S3Objects(cmd.Context(), path, recursive)
			if err != nil {
				return err
			}
			return showAWS[dao.S3Object](cmd, s, "s3://" + path, dao.S3ObjectColumns(), src)
		}),
	}
	ec2Cmd = &cobra.Command{
		Use:   "ec2",
		Short: "List EC2 instances",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, s *session, _ []string) error {
			f, err := s.daoFactory()
			if err != nil {
				return err
			}
			return showAWS[dao.EC2Instance](cmd, s, "ec2(" + f.Region() + ")", dao.EC2InstanceColumns(), f.EC2Instances())
		}),
	}
	iamCmd = &cobra.Command{
		Use:   "iam",
		Short: "List IAM users",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, s *session, _ []string) error {
			f, err := s.daoFactory()
			if err != nil {
				return err
			}
			return showAWS[dao.IAMUser](cmd, s, "iam", dao.IAMUserColumns(), f.IAMUsers())
		}),
	}
	eksCmd = &cobra.Command{
		Use:   "eks",
		Short: "List EKS clusters",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, s *session, _ []string) error {
			f, err := s.daoFactory()
			if err != nil {
				return err
			}
			return showAWS[dao.EKSCluster](cmd, s, "eks(" + f.Region() + ")", dao.EKSClusterColumns(), f.EKSClusters())
		}),
	}
	stacksCmd = &cobra.Command{
		Use:   "stacks",
		Short: "List CloudFormation stacks",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, s *session, _ []string) error {
			f, err := s.daoFactory()
			if err != nil {
				return err
			}
			return showAWS[dao.Stack](cmd, s, "stacks(" + f.Region() + ")", dao.StackColumns(), f.Stacks())
		}),
	}
	resourcesCmd = &cobra.Command{
		Use:   "resources TYPE",
		Short: "List Cloud Control resources of a type",
		Long: `List Cloud Control resources. TYPE is an alias, a service/resource pair such
as ec2/volume or a CloudFormation type such as AWS::EC2::Volume.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(runResources),
	}
	typesCmd = &cobra.Command{
		Use:   "types",
		Short: "List the known resource types and aliases",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, s *session, _ []string) error {
			byType := make(map[string][]string)
			for alias, rid := range s.aliases.All() {
				byType[rid] = append(byType[rid], alias)
			}
			for _, rid := range dao.TypeAliases() {
				cf, _ := dao.ResolveTypeName(rid)
				fmt.Fprintf(s.out, "%-20s %-28s %s\n", rid, cf, strings.Join(slices.Sorted(slices.Values(byType[rid])), ","))
			}
			return nil
		}),
	}
	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "List the shared config profiles",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, s *session, _ []string) error {
			return showAWS[dao.Profile](cmd, s, "profiles", dao.ProfileColumns(), dao.NewProfiles(aws.NewCredentialDiscovery(), s.cfg.ActiveProfile()))
		}),
	}
)

func init() {
	s3Cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "List every object under the prefix")
	resourcesCmd.Flags().StringSliceVarP(&properties, "property", "P", nil, "Extra columns as gjson paths into the resource properties")

	awsCmd.AddCommand(s3Cmd, ec2Cmd, iamCmd, eksCmd, stacksCmd, resourcesCmd, typesCmd, profilesCmd)
	rootCmd.AddCommand(awsCmd)
}

func runResources(cmd *cobra.Command, s *session, args []string) error {
	typeName, err := dao.ResolveTypeName(s.aliases.Get(args[0]))
	if err != nil {
		return err
	}
	cols, err := dao.ResourceColumns(properties...)
	if err != nil {
		return err
	}
	f, err := s.daoFactory()
	if err != nil {
		return err
	}
	s.log.Debug("listing resources", "type", typeName, "region", f.Region())

	return showAWS[dao.Resource](cmd, s, typeName, cols, f.Resources(typeName))
}

// showAWS presents a listing, swapping the built-in columns for the
// --columns flag when given.
func showAWS[T table.Record](cmd *cobra.Command, s *session, name string, cols table.Columns, src model.Source[T]) error {
	if specs := *tabulaFlags.Columns; len(specs) > 0 {
		var err error
		if cols, err = config.ParseColumns(specs); err != nil {
			return err
		}
	}

	return present(cmd.Context(), s, listing[T]{name: name, columns: cols, source: src})
}
