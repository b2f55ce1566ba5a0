package compute

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

type fakeEC2 struct {
	pages    []*ec2.DescribeInstancesOutput
	inputs   []*ec2.DescribeInstancesInput
	stopped  []string
	started  []string
	err      error
	startErr error
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	idx := 0
	if in.NextToken != nil {
		for i := range f.pages {
			if f.pages[i].NextToken != nil && *f.pages[i].NextToken == *in.NextToken {
				idx = i + 1
			}
		}
	}
	return f.pages[idx], nil
}

func (f *fakeEC2) StopInstances(_ context.Context, in *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	f.stopped = append(f.stopped, in.InstanceIds...)
	return &ec2.StopInstancesOutput{}, f.err
}

func (f *fakeEC2) StartInstances(_ context.Context, in *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	f.started = append(f.started, in.InstanceIds...)
	return &ec2.StartInstancesOutput{}, f.startErr
}

func instance(id string, state types.InstanceStateName) types.Instance {
	launched := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return types.Instance{
		InstanceId:       aws.String(id),
		State:            &types.InstanceState{Name: state},
		LaunchTime:       &launched,
		PrivateIpAddress: aws.String("10.0.1.100"),
		Tags: []types.Tag{
			{Key: aws.String("Role"), Value: aws.String("web-server")},
			{Key: aws.String("Name"), Value: aws.String("Demo Web Server")},
		},
	}
}

func TestDescribeInstancesMapsAndFilters(t *testing.T) {
	fake := &fakeEC2{pages: []*ec2.DescribeInstancesOutput{
		{
			Reservations: []types.Reservation{{Instances: []types.Instance{instance("i-1234567890abcdef0", types.InstanceStateNameRunning)}}},
			NextToken:    aws.String("page-2"),
		},
		{
			Reservations: []types.Reservation{{Instances: []types.Instance{instance("i-2", types.InstanceStateNameStopped)}}},
		},
	}}
	c := NewWithClient(fake, "us-east-2")

	got, err := c.DescribeInstances(context.Background(), domain.TargetFilter("Role", "web-server"))
	if err != nil {
		t.Fatalf("DescribeInstances() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 instances across pages, got %d", len(got))
	}
	first := got[0]
	if first.ID != "i-1234567890abcdef0" || first.State != domain.StateRunning || first.Tags["Role"] != "web-server" {
		t.Fatalf("unexpected descriptor %+v", first)
	}
	if first.PrivateIP != "10.0.1.100" || first.PublicIP != "" || first.LaunchTime.IsZero() {
		t.Fatalf("unexpected network fields %+v", first)
	}

	filters := fake.inputs[0].Filters
	if len(filters) != 2 || aws.ToString(filters[0].Name) != "tag:Role" || filters[0].Values[0] != "web-server" {
		t.Fatalf("unexpected tag filter %+v", filters)
	}
	if aws.ToString(filters[1].Name) != "instance-state-name" || len(filters[1].Values) != 3 {
		t.Fatalf("unexpected state filter %+v", filters[1])
	}
}

func TestDescribeInstancesPropagatesError(t *testing.T) {
	c := NewWithClient(&fakeEC2{err: errors.New("UnauthorizedOperation")}, "us-east-1")
	if _, err := c.DescribeInstances(context.Background(), domain.TargetFilter("Role", "web-server")); err == nil {
		t.Fatal("expected error")
	}
}

func TestInstanceState(t *testing.T) {
	fake := &fakeEC2{pages: []*ec2.DescribeInstancesOutput{{
		Reservations: []types.Reservation{{Instances: []types.Instance{instance("i-1", types.InstanceStateNameStopping)}}},
	}}}
	c := NewWithClient(fake, "us-east-1")

	state, err := c.InstanceState(context.Background(), "i-1")
	if err != nil {
		t.Fatalf("InstanceState() error = %v", err)
	}
	if state != domain.StateStopping {
		t.Fatalf("expected stopping, got %s", state)
	}
	if ids := fake.inputs[0].InstanceIds; len(ids) != 1 || ids[0] != "i-1" {
		t.Fatalf("expected lookup by id, got %v", ids)
	}

	if _, err := c.InstanceState(context.Background(), "i-missing"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestStopAndStartInstance(t *testing.T) {
	fake := &fakeEC2{startErr: errors.New("InsufficientInstanceCapacity")}
	c := NewWithClient(fake, "us-east-1")

	if err := c.StopInstance(context.Background(), "i-1"); err != nil {
		t.Fatalf("StopInstance() error = %v", err)
	}
	if err := c.StartInstance(context.Background(), "i-1"); err == nil {
		t.Fatal("expected start error")
	}
	if len(fake.stopped) != 1 || len(fake.started) != 1 {
		t.Fatalf("unexpected calls stop=%v start=%v", fake.stopped, fake.started)
	}
}
