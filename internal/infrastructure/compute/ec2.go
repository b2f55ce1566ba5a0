// Package compute implements ports.ComputeAPI against Amazon EC2.
package compute

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// EC2API is the slice of *ec2.Client used by EC2Compute.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
}

// EC2Compute adapts the EC2 API to ports.ComputeAPI.
type EC2Compute struct {
	client EC2API
	region string
}

// NewEC2 resolves credentials through the default chain and builds a client
// bound to region.
func NewEC2(ctx context.Context, region string) (*EC2Compute, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(ec2.NewFromConfig(cfg), region), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client EC2API, region string) *EC2Compute {
	return &EC2Compute{client: client, region: region}
}

// Region returns the region the client is bound to.
func (c *EC2Compute) Region() string {
	return c.region
}

// DescribeInstances implements ports.ComputeAPI. Filtering happens server side.
func (c *EC2Compute) DescribeInstances(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceDescriptor, error) {
	states := make([]string, 0, len(filter.States))
	for _, s := range filter.States {
		states = append(states, string(s))
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{Name: aws.String("tag:" + filter.TagKey), Values: []string{filter.TagValue}},
			{Name: aws.String("instance-state-name"), Values: states},
		},
	}
	return c.describe(ctx, input)
}

// InstanceState implements ports.ComputeAPI.
func (c *EC2Compute) InstanceState(ctx context.Context, instanceID string) (domain.LifecycleState, error) {
	found, err := c.describe(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}})
	if err != nil {
		return "", err
	}
	for _, inst := range found {
		if inst.ID == instanceID {
			return inst.State, nil
		}
	}
	return "", fmt.Errorf("instance %s not found", instanceID)
}

// StopInstance implements ports.ComputeAPI.
func (c *EC2Compute) StopInstance(ctx context.Context, instanceID string) error {
	if _, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: []string{instanceID}}); err != nil {
		return fmt.Errorf("stop %s: %w", instanceID, err)
	}
	return nil
}

// StartInstance implements ports.ComputeAPI.
func (c *EC2Compute) StartInstance(ctx context.Context, instanceID string) error {
	if _, err := c.client.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: []string{instanceID}}); err != nil {
		return fmt.Errorf("start %s: %w", instanceID, err)
	}
	return nil
}

func (c *EC2Compute) describe(ctx context.Context, input *ec2.DescribeInstancesInput) ([]domain.InstanceDescriptor, error) {
	var out []domain.InstanceDescriptor
	pager := ec2.NewDescribeInstancesPaginator(c.client, input)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				out = append(out, toDescriptor(inst))
			}
		}
	}
	return out, nil
}

func toDescriptor(inst types.Instance) domain.InstanceDescriptor {
	desc := domain.InstanceDescriptor{
		ID:        aws.ToString(inst.InstanceId),
		Tags:      make(map[string]string, len(inst.Tags)),
		PrivateIP: aws.ToString(inst.PrivateIpAddress),
		PublicIP:  aws.ToString(inst.PublicIpAddress),
	}
	if inst.State != nil {
		desc.State = domain.LifecycleState(inst.State.Name)
	}
	if inst.LaunchTime != nil {
		desc.LaunchTime = *inst.LaunchTime
	}
	for _, tag := range inst.Tags {
		desc.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return desc
}

var _ ports.ComputeAPI = (*EC2Compute)(nil)
