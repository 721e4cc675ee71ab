package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/integration/entrypoint/dto"
)

type planFormatter func(w io.Writer, plan *entity.AllocationPlan) error

func formatterByName(name string) planFormatter {
	switch name {
	case "", "console":
		return writeConsole
	case "json":
		return writeJSON
	case "csv":
		return writeCSV
	default:
		return nil
	}
}

func writeConsole(w io.Writer, plan *entity.AllocationPlan) error {
	fmt.Fprintf(w, "Allocation plan from %s (%s, %d months)\n",
		plan.StartMonth.Format("2006-01"), plan.FundingStyle, plan.Months)
	fmt.Fprintf(w, "Monthly budget: %s  Required: %s  Shortfall: %s\n\n",
		plan.MonthlyBudget.StringFixed(2), plan.TotalRequired.StringFixed(2), plan.Shortfall.StringFixed(2))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "GOAL\tTARGET\tAMOUNT\tREQUIRED\tFIRST MONTH\tFINAL\tGAP\t")
	for i := range plan.Allocations {
		a := &plan.Allocations[i]
		first, _ := a.AllocationAt(0)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			a.Goal.Name,
			a.Goal.TargetDate.Format("2006-01-02"),
			a.Goal.Amount.StringFixed(2),
			a.Goal.RequiredPMT.StringFixed(2),
			first.StringFixed(2),
			a.FinalBalance.StringFixed(2),
			a.Gap.StringFixed(2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if plan.InsufficientBudget() {
		fmt.Fprintf(w, "\nWarning: the budget is %s short of the required payments\n", plan.Shortfall.StringFixed(2))
	}
	return nil
}

func writeJSON(w io.Writer, plan *entity.AllocationPlan) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dto.ToPlanResponse(plan, false))
}

// writeCSV writes one row per goal and month.
func writeCSV(w io.Writer, plan *entity.AllocationPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Goal", "Month", "Allocation", "Balance"}); err != nil {
		return err
	}
	for i := range plan.Allocations {
		a := &plan.Allocations[i]
		for m := range a.MonthlyAllocations {
			row := []string{
				a.Goal.Name,
				plan.StartMonth.AddDate(0, m, 0).Format("2006-01"),
				a.MonthlyAllocations[m].StringFixed(2),
				a.RunningBalances[m].StringFixed(2),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePhases(w io.Writer, phases []entity.ReturnPhase) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tMONTHS\tANNUAL RATE\tKIND")
	for i, phase := range phases {
		kind := "accumulation"
		if phase.Drawdown {
			kind = "drawdown"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", strconv.Itoa(i+1), phase.Length, phase.Rate.StringFixed(4), kind)
	}
	_ = tw.Flush()
}
