package volumes

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes a response in the requested format
func FormatOutput(w io.Writer, response any, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as a table
func formatTable(out io.Writer, response any) error {
	switch r := response.(type) {
	case *ListResponse:
		return formatListTable(out, r)
	case *MountResponse:
		fmt.Fprintf(out, "Mounted %s on %s\n", r.Path, r.Drive)
		if r.ReadOnly {
			fmt.Fprintln(out, "Warning: volume was mounted read-only")
		}
		if r.FilesystemDirty {
			fmt.Fprintln(out, "Warning: filesystem is dirty, consider running chkdsk")
		}
	case *DismountResponse:
		fmt.Fprintf(out, "Dismounted %s (%s)\n", r.Drive, r.Path)
	case *VersionResponse:
		fmt.Fprintf(out, "Driver %s version %s\n", r.DevicePath, r.Version)
	default:
		return fmt.Errorf("no table format for %T", response)
	}
	return nil
}

func formatListTable(out io.Writer, response *ListResponse) error {
	if len(response.Volumes) == 0 {
		fmt.Fprintln(out, "No volumes mounted.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintf(w, "DRIVE\tPATH\tLABEL\tSIZE\tALGORITHM\tTYPE\n")
	fmt.Fprintf(w, "-----\t----\t-----\t----\t---------\t----\n")

	// Data rows, already in drive order
	for _, v := range response.Volumes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Drive, v.Path, v.Label, v.FormatSize(), v.Algorithm, v.Type)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d volume(s) mounted\n", response.Total)
	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response any) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}
