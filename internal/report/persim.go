/*
Copyright © 2026 the LDAR-Sim-Go authors.
This file is part of ldarsim.

ldarsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ldarsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ldarsim.  If not, see <http://www.gnu.org/licenses/>.
*/

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/im3s/ldarsim/internal/engine"
)

const timeLayout = "2006-01-02"

// WriteLeaksCSV writes one simulation's leaks_output_{sim}.csv: every
// leak the simulation ever held, active or repaired, in facility-ID
// order for a stable diff across re-runs.
func WriteLeaksCSV(w io.Writer, sim *engine.Simulation) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"leak_ID", "facility_ID", "equipment_group", "rate_g_s", "status",
		"days_active", "date_began", "date_tagged", "tagged_by_company",
		"tagged_by_crew", "date_repaired", "repair_delay_days",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	ids := make([]string, 0, len(sim.Leaks))
	for id := range sim.Leaks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		l := sim.Leaks[id]
		row := []string{
			l.ID, l.FacilityID, fmt.Sprintf("%d", l.EquipmentGroup), formatFloat(l.Rate), l.Status.String(),
			fmt.Sprintf("%d", l.DaysActive), formatDate(l.DateBegan), formatDate(l.DateTagged),
			l.TaggedByCompany, l.TaggedByCrew, formatDate(l.DateRepaired), fmt.Sprintf("%d", l.RepairDelay),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteTimeseriesCSV writes one simulation's timeseries_output_{sim}.csv:
// one row per simulated day of the daily aggregates the engine records.
func WriteTimeseriesCSV(w io.Writer, sim *engine.Simulation) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"datetime", "active_leaks", "new_leaks", "cum_repaired_leaks", "daily_emissions_kg", "n_tags", "total_daily_cost_usd"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range sim.Daily {
		row := []string{
			formatDate(d.Date), fmt.Sprintf("%d", d.ActiveLeaks), fmt.Sprintf("%d", d.NewLeaks),
			fmt.Sprintf("%d", d.CumRepairedLeaks), formatFloat(d.DailyEmissionsKg),
			fmt.Sprintf("%d", d.NTags), formatFloat(d.TotalDailyCostUSD),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteSitesCSV writes one simulation's sites_output_{sim}.csv: every
// facility's identity, its finalize-time emissions/repair counters,
// and each method's per-site survey and deployability counters.
func WriteSitesCSV(w io.Writer, sim *engine.Simulation) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	methodSet := make(map[string]bool)
	for _, s := range sim.Sites {
		for m := range s.MethodCounters {
			methodSet[m] = true
		}
	}
	methods := make([]string, 0, len(methodSet))
	for m := range methodSet {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	header := []string{"facility_ID", "lat", "lon", "subtype_code", "total_emissions_kg", "active_leaks", "repaired_leaks"}
	for _, m := range methods {
		header = append(header,
			m+"_surveys_conducted", m+"_missed_leaks", m+"_prop_DDs", m+"_MCB")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range sim.Sites {
		row := []string{
			s.FacilityID, formatFloat(s.Lat), formatFloat(s.Lon), s.SubtypeCode,
			formatFloat(s.TotalEmissionsKg), fmt.Sprintf("%d", s.ActiveLeaks), fmt.Sprintf("%d", s.RepairedLeaks),
		}
		for _, m := range methods {
			c := s.Counters(m)
			row = append(row,
				fmt.Sprintf("%d", c.SurveysConducted), fmt.Sprintf("%d", c.MissedLeaks),
				formatFloat(c.PropDDs), fmt.Sprintf("%d", c.MCB))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteMetadata writes metadata_{sim}.txt: the plain key/value run
// record a reviewer reads before trusting the CSVs next to it.
func WriteMetadata(w io.Writer, program string, simIndex int, start time.Time, nDays int, generatedAt time.Time) error {
	_, err := fmt.Fprintf(w,
		"program: %s\nsimulation: %d\nstart_date: %s\nn_days: %d\ngenerated_at: %s\n",
		program, simIndex, start.Format(timeLayout), nDays, generatedAt.Format(time.RFC3339),
	)
	return err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}
