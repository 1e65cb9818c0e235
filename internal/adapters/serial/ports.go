package serial

import (
	"fmt"
	"sort"

	bugserial "go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Lister enumerates serial devices.
type Lister struct{}

// ListPorts returns the device identifiers currently present, sorted.
func (Lister) ListPorts() ([]string, error) {
	names, err := bugserial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// PortDetail describes one device for the ports subcommand.
type PortDetail struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// String renders the detail on one line.
func (d PortDetail) String() string {
	if !d.IsUSB {
		return d.Name
	}
	s := fmt.Sprintf("%s  usb %s:%s", d.Name, d.VID, d.PID)
	if d.Product != "" {
		s += "  " + d.Product
	}
	if d.SerialNumber != "" {
		s += "  sn=" + d.SerialNumber
	}
	return s
}

// Details returns USB metadata for each device, sorted by name.
func (Lister) Details() ([]PortDetail, error) {
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("list port details: %w", err)
	}
	out := make([]PortDetail, 0, len(list))
	for _, p := range list {
		out = append(out, PortDetail{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
