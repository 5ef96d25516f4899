package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"labchem.GO/config"
	auditEntity "labchem.GO/model/entity/audit"
	auditRepo "labchem.GO/model/repository/audit"
)

var auditStatusCmd = &cobra.Command{
	Use:   "audit:status <round>",
	Short: "Print the rollup status of an audit round",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		round, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Invalid round number: %s\n", args[0])
			return
		}
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		repo := auditRepo.GetAuditRepository(db)
		g, err := repo.FindGeneralByRound(uint(round))
		if err != nil {
			fmt.Printf("Round %d not found: %v\n", round, err)
			return
		}
		audits, err := repo.FindAuditsByGeneral(g.AuditGeneralID)
		if err != nil {
			fmt.Printf("Load audits: %v\n", err)
			return
		}

		fmt.Printf(`
=== Audit Round %d ===
Status:          %s
Started:         %s
Last activity:   %s
Locations:       %d pending / %d finished
`, g.Round, g.Status,
			g.StartDate.Format("2006-01-02 15:04"),
			g.LastAuditDate.Format("2006-01-02 15:04"),
			g.PendingCount, g.FinishedCount)

		for _, a := range audits {
			missing, _ := repo.CountRecordsByStatus(a.AuditID, auditEntity.RecordMissing)
			fmt.Printf("  location %-5d %-10s %d pending / %d finished / %d missing\n",
				a.LocationID, a.Status, a.PendingCount, a.FinishedCount, missing)
		}
		fmt.Println("======================")
	},
}

func init() {
	rootCmd.AddCommand(auditStatusCmd)
}
