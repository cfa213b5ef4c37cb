package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/healthlog-app/healthlog/pkg/app"
	"github.com/healthlog-app/healthlog/pkg/records"
)

// DefaultContextDays bounds build_context output when the caller does not
// pass a range.
const DefaultContextDays = 30

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Healthlog MCP server is alive."),
	)
	s.AddTool(pingTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("pong_healthlog"), nil
	})
}

// RegisterBuildContextTool registers build_context, which renders recent
// diary and pain entries as flat text for a conversation.
func RegisterBuildContextTool(s *server.MCPServer, a *app.App) {
	buildContextTool := mcp.NewTool("build_context",
		mcp.WithDescription("Renders recent health log entries (diary and pain) as text to ground a conversation."),
		mcp.WithNumber("range_days", mcp.Description(fmt.Sprintf("Trailing day window to include. 0 includes everything. Defaults to %d.", DefaultContextDays))),
		mcp.WithNumber("limit", mcp.Description("Maximum rows per record kind. 0 means no cap.")),
	)
	s.AddTool(buildContextTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		rangeDays := DefaultContextDays
		if v, ok := args["range_days"].(float64); ok {
			rangeDays = int(v)
		}
		limit := 0
		if v, ok := args["limit"].(float64); ok {
			limit = int(v)
		}
		return mcp.NewToolResultText(a.BuildContext(rangeDays, limit)), nil
	})
}

// RegisterLogEntryTools registers log_diary_entry and log_pain_entry.
func RegisterLogEntryTools(s *server.MCPServer, a *app.App) {
	logDiaryTool := mcp.NewTool("log_diary_entry",
		mcp.WithDescription("Records one diary entry. Date and hour default to now."),
		mcp.WithString("date", mcp.Description("Calendar date, YYYY-MM-DD.")),
		mcp.WithString("hour", mcp.Description("Time of day, HH:MM (24h).")),
		mcp.WithString("mood_level", mcp.Description("Mood on a numeric scale.")),
		mcp.WithString("depression", mcp.Description("Depression level on a numeric scale.")),
		mcp.WithString("anxiety", mcp.Description("Anxiety level on a numeric scale.")),
		mcp.WithString("description", mcp.Description("Free-text description of the day.")),
		mcp.WithString("gratitude", mcp.Description("What the user is grateful for.")),
		mcp.WithString("reflection", mcp.Description("Free-text reflection.")),
	)
	s.AddTool(logDiaryTool, logEntryHandler(a, records.KindDiary))

	logPainTool := mcp.NewTool("log_pain_entry",
		mcp.WithDescription("Records one pain log entry. Date and hour default to now. Tag fields take comma-separated values."),
		mcp.WithString("date", mcp.Description("Calendar date, YYYY-MM-DD.")),
		mcp.WithString("hour", mcp.Description("Time of day, HH:MM (24h).")),
		mcp.WithString("pain_level", mcp.Description("Pain on a numeric scale.")),
		mcp.WithString("fatigue_level", mcp.Description("Fatigue on a numeric scale.")),
		mcp.WithString("symptoms", mcp.Description("Comma-separated symptom tags.")),
		mcp.WithString("area", mcp.Description("Comma-separated body areas.")),
		mcp.WithString("activities", mcp.Description("Comma-separated activity tags.")),
		mcp.WithString("habits", mcp.Description("Comma-separated habit tags.")),
		mcp.WithString("coffee", mcp.Description("Cups of coffee.")),
		mcp.WithString("other", mcp.Description("Comma-separated other notes or flags.")),
		mcp.WithString("medicines", mcp.Description("Comma-separated medicines taken.")),
		mcp.WithString("note", mcp.Description("Free-text note.")),
	)
	s.AddTool(logPainTool, logEntryHandler(a, records.KindPain))
}

func logEntryHandler(a *app.App, kind records.Kind) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fields := make(records.Row)
		for name, raw := range request.GetArguments() {
			val, ok := raw.(string)
			if !ok || val == "" {
				continue
			}
			fields[name] = val
		}

		row, err := a.LogEntry(ctx, kind, fields)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to log %s entry: %v", kind, err)), nil
		}

		jsonResult, err := json.Marshal(row)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize entry to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	}
}

// RegisterTagOptionTools registers the tag catalog tools:
// list_tag_options, add_tag_option, delete_tag_option, rename_tag_option.
func RegisterTagOptionTools(s *server.MCPServer, a *app.App) {
	fieldDesc := fmt.Sprintf("Tag field name, one of: %v.", records.TagFields)

	listTool := mcp.NewTool("list_tag_options",
		mcp.WithDescription("Lists the known values for a tag field."),
		mcp.WithString("field", mcp.Required(), mcp.Description(fieldDesc)),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		field, ok := request.GetArguments()["field"].(string)
		if !ok || field == "" {
			return mcp.NewToolResultError("'field' parameter is required and must be a non-empty string."), nil
		}
		vals, err := a.TagValues(field)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tag options: %v", err)), nil
		}
		if len(vals) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		jsonResult, err := json.Marshal(vals)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize tag options to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})

	addTool := mcp.NewTool("add_tag_option",
		mcp.WithDescription("Adds a value to a tag field's catalog. Clears a prior removal of the same value."),
		mcp.WithString("field", mcp.Required(), mcp.Description(fieldDesc)),
		mcp.WithString("value", mcp.Required(), mcp.Description("The tag value to add.")),
	)
	s.AddTool(addTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		field, value, errResult := fieldValueArgs(request)
		if errResult != nil {
			return errResult, nil
		}
		if err := a.AddTag(ctx, field, value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add tag option: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Added '%s' to %s.", value, field)), nil
	})

	deleteTool := mcp.NewTool("delete_tag_option",
		mcp.WithDescription("Removes a value from a tag field's catalog. The value stays removed until explicitly re-added, even if historical entries still use it."),
		mcp.WithString("field", mcp.Required(), mcp.Description(fieldDesc)),
		mcp.WithString("value", mcp.Required(), mcp.Description("The tag value to remove.")),
	)
	s.AddTool(deleteTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		field, value, errResult := fieldValueArgs(request)
		if errResult != nil {
			return errResult, nil
		}
		if err := a.DeleteTag(ctx, field, value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete tag option: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Removed '%s' from %s.", value, field)), nil
	})

	renameTool := mcp.NewTool("rename_tag_option",
		mcp.WithDescription("Renames a value in a tag field's catalog."),
		mcp.WithString("field", mcp.Required(), mcp.Description(fieldDesc)),
		mcp.WithString("old_value", mcp.Required(), mcp.Description("The current tag value.")),
		mcp.WithString("new_value", mcp.Required(), mcp.Description("The replacement tag value.")),
	)
	s.AddTool(renameTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		field, _ := args["field"].(string)
		oldValue, _ := args["old_value"].(string)
		newValue, _ := args["new_value"].(string)
		if field == "" || oldValue == "" || newValue == "" {
			return mcp.NewToolResultError("'field', 'old_value' and 'new_value' parameters are required."), nil
		}
		if err := a.RenameTag(ctx, field, oldValue, newValue); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to rename tag option: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Renamed '%s' to '%s' in %s.", oldValue, newValue, field)), nil
	})
}

func fieldValueArgs(request mcp.CallToolRequest) (field, value string, errResult *mcp.CallToolResult) {
	args := request.GetArguments()
	field, _ = args["field"].(string)
	value, _ = args["value"].(string)
	if field == "" || value == "" {
		return "", "", mcp.NewToolResultError("'field' and 'value' parameters are required and must be non-empty strings.")
	}
	return field, value, nil
}

// RegisterStatsTool registers dataset_stats.
func RegisterStatsTool(s *server.MCPServer, a *app.App) {
	statsTool := mcp.NewTool("dataset_stats",
		mcp.WithDescription("Summarizes the stored datasets: entry counts, date ranges, and averages of the numeric fields."),
		mcp.WithNumber("range_days", mcp.Description("Trailing day window to summarize. 0 (the default) covers everything.")),
	)
	s.AddTool(statsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rangeDays := 0
		if v, ok := request.GetArguments()["range_days"].(float64); ok {
			rangeDays = int(v)
		}
		jsonResult, err := json.Marshal(a.StatsWindow(rangeDays))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize stats to JSON: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonResult)), nil
	})
}
