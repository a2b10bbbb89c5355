package main

import (
	"fmt"
	"os"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	sfpkg "github.com/sells-group/leadgen-cli/pkg/salesforce"
)

var sfpushLimit int

var sfpushCmd = &cobra.Command{
	Use:   "sfpush",
	Short: "Push stored leads to Salesforce as Lead records",
	RunE: func(cmd *cobra.Command, args []string) error {
		sfClient, err := initSalesforce()
		if err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, err := st.ListLeads(cmd.Context(), cfg.Pipeline.WorkspaceID, sfpushLimit, 0)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			fmt.Println("no leads to push")
			return nil
		}

		records := make([]sfpkg.LeadRecord, len(leads))
		for i, l := range leads {
			records[i] = sfpkg.LeadRecord{
				FirstName: l.FirstName,
				LastName:  l.LastName,
				Company:   l.Company,
				Phone:     l.Phone,
				Email:     l.Email,
				Street:    l.Address,
				City:      l.City,
				State:     l.State,
				Zip:       l.Zip,
				Score:     l.Score,
				Source:    l.SourceTag,
				Notes:     l.Notes,
			}
		}

		created, err := sfpkg.PushLeads(cmd.Context(), sfClient, records)
		if err != nil {
			return err
		}
		fmt.Printf("pushed %d of %d leads to Salesforce\n", created, len(records))
		return nil
	},
}

// initSalesforce builds a JWT-authenticated Salesforce client.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LEADGEN_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(5)), nil
}

func init() {
	sfpushCmd.Flags().IntVar(&sfpushLimit, "limit", 10000, "maximum leads to push")
	rootCmd.AddCommand(sfpushCmd)
}
