// submodule cmd contains command definitions
package main

import (
	"fmt"

	"github.com/desertthunder/coursebook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the receipt journal and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the configuration file to create",
						Value:   r.configPath,
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// coursesCommand lists the course catalog.
func coursesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "List bookable courses",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Courses,
	}
}

// slotsCommand lists the slots of one course.
func slotsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: "List the time slots of a course with remaining places",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "course",
				Aliases:  []string{"c"},
				Usage:    "Course name as listed by 'courses'",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Slots,
	}
}

// bookCommand books one slot non-interactively.
func bookCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "book",
		Usage: "Book a time slot of a course",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "course",
				Aliases:  []string{"c"},
				Usage:    "Course name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "date",
				Aliases:  []string{"d"},
				Usage:    "Slot date as listed by 'slots'",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "time",
				Aliases:  []string{"t"},
				Usage:    "Slot time as listed by 'slots'",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "first",
				Usage:    "First name of the participant",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "last",
				Usage:    "Last name of the participant",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "no-record",
				Usage: "Do not store a receipt in the local journal",
			},
		},
		Action: r.Book,
	}
}

// exportCommand snapshots availability of every course.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export slot availability of all courses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   r.config.Export.Format,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: coursebook_export_{epoch})",
				Value:   r.config.Export.OutputDir,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Concurrent course fetches (max %d)", tasks.MaxExportWorkers),
				Value:   r.config.Export.Workers,
			},
		},
		Action: r.Export,
	}
}

// receiptsCommand manages the local journal of confirmed bookings.
func receiptsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "receipts",
		Usage: "Manage receipts of bookings made from this machine",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored receipts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "course",
						Usage: "Only show receipts for this course",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ReceiptsList,
			},
			{
				Name:  "delete",
				Usage: "Delete a stored receipt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Receipt ID",
						Required: true,
					},
				},
				Action: r.ReceiptsDelete,
			},
		},
	}
}

// apiCommand handles direct calls to the booking endpoint
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the booking endpoint",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the booking endpoint, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value, e.g. -p fn=courses",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive booking.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for booking a slot",
		Action:  r.TUI,
	}
}
