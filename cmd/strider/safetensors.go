package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/strider/loader"
)

// SafeTensorsArguments configures the safetensors command.
type SafeTensorsArguments struct {
	File string
}

// ListSafeTensors prints one table row per tensor of a SafeTensors file.
func ListSafeTensors(w io.Writer, log logrus.FieldLogger, args *SafeTensorsArguments) error {
	st, err := loader.OpenSafeTensors(args.File)
	if err != nil {
		return err
	}
	defer st.Close()

	names := st.TensorNames()
	log.WithFields(logrus.Fields{"file": args.File, "tensors": len(names)}).Info("opened safetensors")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tensor", "Dtype", "Shape", "Bytes"})
	table.SetCaption(true, fmt.Sprintf("%d Tensors", len(names)))
	table.SetBorder(false)
	for _, name := range names {
		info, err := st.TensorInfo(name)
		if err != nil {
			return err
		}
		table.Append([]string{
			name,
			info.DtypeName,
			info.Shape.String(),
			fmt.Sprint(info.DataOffsets[1] - info.DataOffsets[0]),
		})
	}
	for k, v := range st.Metadata() {
		log.WithField(k, v).Debug("metadata")
	}
	table.Render()
	return nil
}
