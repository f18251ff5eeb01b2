package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

var rankCmd = &cobra.Command{
	Use:   "rank <profile-id>",
	Short: "Rank learning partners for a profile",
	Long:  `Rank scores every other profile against the given one and prints the candidates best first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// таблица идёт в stdout, логи в stderr
		cfg.Log.Level = logger.LevelWarn.String()
		log := newLogger(cfg, cmd.ErrOrStderr())

		a, err := buildApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}

		q, err := rankQuery(cmd, args[0])
		if err != nil {
			return err
		}

		h := query.NewFindPartnersHandler(a.profiles, a.relationships, matching.NewScorer(nil))
		result, err := h.Handle(cmd.Context(), q)
		if err != nil {
			return err
		}
		return writePartnerTable(cmd.OutOrStdout(), result)
	},
}

func init() {
	rankCmd.Flags().Int("min-score", 0, "Minimum compatibility percent (0-100)")
	rankCmd.Flags().StringSlice("skills", nil, "Comma-separated skill IDs, any of which must match")
	rankCmd.Flags().String("query", "", "Case-insensitive substring of a name or skill")
	rankCmd.Flags().IntP("limit", "l", 10, "Number of candidates to display (0 = all)")
	rankCmd.Flags().Bool("no-color", false, "Disable colored match percentages")
}

var (
	strongColor   = color.New(color.FgGreen, color.Bold)
	goodColor     = color.New(color.FgGreen)
	baselineColor = color.New(color.FgYellow)
)

// matchLabel colors a compatibility percent by band.
func matchLabel(percent int) string {
	label := strconv.Itoa(percent) + "%"
	switch {
	case percent >= 80:
		return strongColor.Sprint(label)
	case percent >= 65:
		return goodColor.Sprint(label)
	default:
		return baselineColor.Sprint(label)
	}
}

func rankQuery(cmd *cobra.Command, profileID string) (query.FindPartnersQuery, error) {
	flags := cmd.Flags()

	minScore, err := flags.GetInt("min-score")
	if err != nil {
		return query.FindPartnersQuery{}, err
	}
	skills, err := flags.GetStringSlice("skills")
	if err != nil {
		return query.FindPartnersQuery{}, err
	}
	text, err := flags.GetString("query")
	if err != nil {
		return query.FindPartnersQuery{}, err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return query.FindPartnersQuery{}, err
	}

	return query.FindPartnersQuery{
		ProfileID:       profileID,
		MinScorePercent: minScore,
		SkillIDs:        skills,
		Query:           text,
		Limit:           limit,
	}, nil
}

// writePartnerTable renders ranked candidates followed by a summary line.
func writePartnerTable(w io.Writer, result *query.FindPartnersResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "ID", "Name", "Match", "Common Skills", "Why"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, c := range result.Candidates {
		names := make([]string, 0, len(c.CommonSkills))
		for _, s := range c.CommonSkills {
			names = append(names, s.Name)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			c.Profile.ID,
			c.Profile.Name,
			matchLabel(c.ScorePercent),
			strings.Join(names, ", "),
			c.Rationale,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d of %d matching (%d candidates)\n",
		len(result.Candidates), result.TotalMatching, result.TotalCandidates)
	return err
}
