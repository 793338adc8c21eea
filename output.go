package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/3leaps/repostore/internal/verify"
)

type result struct {
	Repo             string   `json:"repo"`
	Tag              string   `json:"tag"`
	Asset            string   `json:"asset"`
	URL              string   `json:"url"`
	Size             int64    `json:"size"`
	Reason           string   `json:"reason"`
	ABI              string   `json:"abi,omitempty"`
	ABIs             []string `json:"abis"`
	Compatible       bool     `json:"compatible"`
	CompatibleAssets []string `json:"compatibleAssets"`
	Installed        string   `json:"installed,omitempty"`
	Decision         string   `json:"decision"`
	Message          string   `json:"message"`
	DryRun           bool     `json:"dryRun"`
	Path             string   `json:"path,omitempty"`
}

func writeResult(w io.Writer, res *result, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	selection := res.Reason
	if res.ABI != "" {
		selection = fmt.Sprintf("%s (%s)", res.Reason, res.ABI)
	}
	lines := []string{
		fmt.Sprintf("repo:      %s", res.Repo),
		fmt.Sprintf("release:   %s", res.Tag),
		fmt.Sprintf("asset:     %s (%s)", res.Asset, verify.FormatSize(res.Size)),
		fmt.Sprintf("abis:      %s", strings.Join(res.ABIs, ", ")),
		fmt.Sprintf("selection: %s", selection),
		fmt.Sprintf("fits:      %s", strings.Join(res.CompatibleAssets, ", ")),
		fmt.Sprintf("status:    %s", res.Message),
	}
	if res.Path != "" {
		lines = append(lines, fmt.Sprintf("saved:     %s", res.Path))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
