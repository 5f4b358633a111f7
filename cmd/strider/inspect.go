package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/strider/loader"
	"github.com/born-ml/strider/tensor"
)

// InspectArguments configures the inspect command.
type InspectArguments struct {
	File       string
	Dtype      string
	Slice      string
	PolicyFile string
}

// Inspect loads a JSON array literal, prints its shape and dtype, and, when a
// slice is given, the view it selects and the policy's decision for it.
func Inspect(w io.Writer, log logrus.FieldLogger, args *InspectArguments) error {
	dt, err := tensor.ParseDtype(args.Dtype)
	if err != nil {
		return err
	}
	descs, err := parseSlice(args.Slice)
	if err != nil {
		return err
	}

	policy := tensor.DefaultPolicy()
	if args.PolicyFile != "" {
		raw, err := os.ReadFile(args.PolicyFile)
		if err != nil {
			return errors.Wrap(err, "read policy")
		}
		if policy, err = tensor.ParsePolicy(raw); err != nil {
			return err
		}
	}
	policy.Logger = log

	data, err := os.ReadFile(args.File)
	if err != nil {
		return errors.Wrap(err, "read array")
	}
	log.WithFields(logrus.Fields{"file": args.File, "dtype": dt}).Info("inspecting array")

	switch {
	case dt.IsFloat():
		return inspect[float32](w, dt, data, descs, policy)
	case dt == tensor.Int32:
		return inspect[int32](w, dt, data, descs, policy)
	default:
		return inspect[int8](w, dt, data, descs, policy)
	}
}

func inspect[V tensor.Value](w io.Writer, dt tensor.Dtype, data []byte, descs []tensor.SliceDescriptor, policy tensor.Policy) error {
	d, err := loader.ParseArray[V](dt, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "shape: %v\n", d.Shape())
	fmt.Fprintf(w, "dtype: %v\n", d.Dtype())
	if descs == nil {
		return nil
	}

	v, err := tensor.NewView[V](d, descs...)
	if err != nil {
		return err
	}
	decision, err := policy.Decide(v)
	if err != nil {
		return err
	}
	values, err := v.Materialize()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "view shape: %v\n", v.Shape())
	fmt.Fprintf(w, "contiguous: %t\n", v.IsContiguous())
	fmt.Fprintf(w, "score: %d\n", decision.Score)
	fmt.Fprintf(w, "materialize: %t (%s)\n", decision.Materialize, decision.Reason)
	fmt.Fprintf(w, "values: %v\n", values.Values())
	return nil
}

// parseSlice reads comma separated per-dimension selections:
// "i" is an index, ":" (or empty) keeps the dimension, "a:b" and "a:b:s" are ranges.
// An empty string means no slice.
func parseSlice(s string) ([]tensor.SliceDescriptor, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	descs := make([]tensor.SliceDescriptor, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == ":" {
			descs[i] = tensor.All()
			continue
		}
		fields := strings.Split(part, ":")
		nums := make([]int, len(fields))
		for j, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, errors.Wrapf(tensor.ErrInvalidArgument, "slice %q: bad number %q", part, f)
			}
			nums[j] = n
		}
		switch len(nums) {
		case 1:
			descs[i] = tensor.Index(nums[0])
		case 2:
			descs[i] = tensor.Range(nums[0], nums[1], 1)
		case 3:
			descs[i] = tensor.Range(nums[0], nums[1], nums[2])
		default:
			return nil, errors.Wrapf(tensor.ErrInvalidArgument, "slice %q: too many fields", part)
		}
	}
	return descs, nil
}
