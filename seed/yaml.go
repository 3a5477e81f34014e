// Package seed reads and writes workforce populations as YAML seed files.
//
// A seed file lists labourers (with their attendance), contractors and work
// orders. Dates use YYYY-MM-DD; rates, hours and balances may be written as
// numbers or quoted decimal strings.
//
//	labourers:
//	  - id: lab-1
//	    name: Ravi Kumar
//	    role: Mason
//	    rate: "200"
//	    attendance:
//	      - {date: 2025-03-03, status: present, hours: 8}
//	contractors:
//	  - id: con-1
//	    name: Mahesh Patil
//	    balance: 42000
//	    labourers: [lab-1]
package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/workforce-ledger/workforce"
)

type fileYAML struct {
	Labourers   []labourerYAML   `yaml:"labourers"`
	Contractors []contractorYAML `yaml:"contractors"`
	WorkOrders  []workOrderYAML  `yaml:"work_orders"`
}

type labourerYAML struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	Role       string           `yaml:"role,omitempty"`
	Rate       string           `yaml:"rate"`
	Attendance []attendanceYAML `yaml:"attendance,omitempty"`
}

type attendanceYAML struct {
	Date   string `yaml:"date"`
	Status string `yaml:"status"`
	Hours  string `yaml:"hours,omitempty"`
}

type contractorYAML struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Company   string   `yaml:"company,omitempty"`
	Contact   string   `yaml:"contact,omitempty"`
	Balance   string   `yaml:"balance"`
	Labourers []string `yaml:"labourers,omitempty"`
}

type workOrderYAML struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	ContractorID   string   `yaml:"contractor_id,omitempty"`
	Labourers      []string `yaml:"labourers,omitempty"`
	Status         string   `yaml:"status"`
	StartDate      string   `yaml:"start_date"`
	EndDate        string   `yaml:"end_date,omitempty"`
	EstimatedHours string   `yaml:"estimated_hours,omitempty"`
	Location       string   `yaml:"location,omitempty"`
	Notes          string   `yaml:"notes,omitempty"`
}

// ReadFile decodes the seed file at path.
func ReadFile(path string) (workforce.Population, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return workforce.Population{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	pop, err := Decode(bytes.NewReader(data))
	if err != nil {
		return workforce.Population{}, fmt.Errorf("seed: %s: %w", path, err)
	}
	return pop, nil
}

// Decode parses a YAML seed document. It checks formats only; store
// invariants are enforced when the population is loaded into a Ledger.
func Decode(r io.Reader) (workforce.Population, error) {
	var doc fileYAML
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return workforce.Population{}, fmt.Errorf("decode yaml: %w", err)
	}

	var pop workforce.Population
	for _, l := range doc.Labourers {
		rate, err := parseAmount(l.Rate)
		if err != nil {
			return workforce.Population{}, fmt.Errorf("labourer %s rate: %w", l.ID, err)
		}
		labourer := workforce.Labourer{ID: workforce.LabourerID(l.ID), Name: l.Name, Role: l.Role, Rate: rate}
		for _, a := range l.Attendance {
			date, err := workforce.ParseDate(a.Date)
			if err != nil {
				return workforce.Population{}, fmt.Errorf("labourer %s attendance: %w", l.ID, err)
			}
			hours, err := parseAmount(a.Hours)
			if err != nil {
				return workforce.Population{}, fmt.Errorf("labourer %s attendance %s hours: %w", l.ID, a.Date, err)
			}
			labourer.Attendance = append(labourer.Attendance, workforce.AttendanceRecord{
				Date:   date,
				Status: workforce.AttendanceStatus(a.Status),
				Hours:  hours,
			})
		}
		pop.Labourers = append(pop.Labourers, labourer)
	}

	for _, c := range doc.Contractors {
		balance, err := parseAmount(c.Balance)
		if err != nil {
			return workforce.Population{}, fmt.Errorf("contractor %s balance: %w", c.ID, err)
		}
		contractor := workforce.Contractor{
			ID:      workforce.ContractorID(c.ID),
			Name:    c.Name,
			Company: c.Company,
			Contact: c.Contact,
			Balance: balance,
		}
		for _, lid := range c.Labourers {
			contractor.Labourers = append(contractor.Labourers, workforce.LabourerID(lid))
		}
		pop.Contractors = append(pop.Contractors, contractor)
	}

	for _, w := range doc.WorkOrders {
		order := workforce.WorkOrder{
			ID:           workforce.WorkOrderID(w.ID),
			Title:        w.Title,
			ContractorID: workforce.ContractorID(w.ContractorID),
			Status:       workforce.WorkOrderStatus(w.Status),
			Location:     w.Location,
			Notes:        w.Notes,
		}
		var err error
		if order.StartDate, err = workforce.ParseDate(w.StartDate); err != nil {
			return workforce.Population{}, fmt.Errorf("work order %s start_date: %w", w.ID, err)
		}
		if w.EndDate != "" {
			end, err := workforce.ParseDate(w.EndDate)
			if err != nil {
				return workforce.Population{}, fmt.Errorf("work order %s end_date: %w", w.ID, err)
			}
			order.EndDate = &end
		}
		if order.EstimatedHours, err = parseAmount(w.EstimatedHours); err != nil {
			return workforce.Population{}, fmt.Errorf("work order %s estimated_hours: %w", w.ID, err)
		}
		for _, lid := range w.Labourers {
			order.Labourers = append(order.Labourers, workforce.LabourerID(lid))
		}
		pop.WorkOrders = append(pop.WorkOrders, order)
	}

	return pop, nil
}

// Encode writes pop as a YAML seed document.
func Encode(w io.Writer, pop workforce.Population) error {
	var doc fileYAML
	for _, l := range pop.Labourers {
		entry := labourerYAML{ID: string(l.ID), Name: l.Name, Role: l.Role, Rate: l.Rate.String()}
		for _, rec := range l.Attendance {
			a := attendanceYAML{Date: rec.Date.String(), Status: string(rec.Status)}
			if rec.HasHours() {
				a.Hours = rec.Hours.String()
			}
			entry.Attendance = append(entry.Attendance, a)
		}
		doc.Labourers = append(doc.Labourers, entry)
	}
	for _, c := range pop.Contractors {
		entry := contractorYAML{ID: string(c.ID), Name: c.Name, Company: c.Company, Contact: c.Contact, Balance: c.Balance.String()}
		for _, lid := range c.Labourers {
			entry.Labourers = append(entry.Labourers, string(lid))
		}
		doc.Contractors = append(doc.Contractors, entry)
	}
	for _, wo := range pop.WorkOrders {
		entry := workOrderYAML{
			ID:           string(wo.ID),
			Title:        wo.Title,
			ContractorID: string(wo.ContractorID),
			Status:       string(wo.Status),
			StartDate:    wo.StartDate.String(),
			Location:     wo.Location,
			Notes:        wo.Notes,
		}
		if wo.EndDate != nil {
			entry.EndDate = wo.EndDate.String()
		}
		if !wo.EstimatedHours.IsZero() {
			entry.EstimatedHours = wo.EstimatedHours.String()
		}
		for _, lid := range wo.Labourers {
			entry.Labourers = append(entry.Labourers, string(lid))
		}
		doc.WorkOrders = append(doc.WorkOrders, entry)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
