package viewline

// WrappedRow returns the input for one wrapped row of in covering the
// rune range [start, end). Tokens, decorations and selections are clipped
// to the row and shifted to row offsets. continues marks every row but
// the last; startVisibleColumn is the row's column within the full line.
func WrappedRow(in *RenderLineInput, start, end, startVisibleColumn int, continues bool) *RenderLineInput {
	runes := []rune(in.LineContent)
	start = min(max(start, 0), len(runes))
	end = min(max(end, start), len(runes))

	row := *in
	row.LineContent = string(runes[start:end])
	row.IsBasicASCII, row.ContainsRTL = DetectLineHints(row.LineContent)
	row.ContinuesWithWrappedLine = continues
	row.StartVisibleColumn = startVisibleColumn
	row.LineTokens = sliceTokens(in.LineTokens, start, end)
	row.LineDecorations = sliceDecorations(in.LineDecorations, start, end, continues)
	row.SelectionsOnLine = sliceSelections(in.SelectionsOnLine, start, end)
	if start > 0 {
		row.FauxIndentLength = 0
	} else {
		row.FauxIndentLength = min(in.FauxIndentLength, end)
	}
	return &row
}

func sliceTokens(tokens LineTokens, start, end int) TokenRuns {
	if tokens == nil {
		return nil
	}
	var result TokenRuns
	for i := 0; i < tokens.Count(); i++ {
		tokenEnd := tokens.EndOffset(i)
		if tokenEnd <= start {
			continue
		}
		result = append(result, TokenRun{
			EndOffset: min(tokenEnd, end) - start,
			ClassName: tokens.ClassName(i),
		})
		if tokenEnd >= end {
			break
		}
	}
	return result
}

// sliceDecorations keeps the decorations intersecting the row. Zero-width
// decorations on a boundary shared with a neighbouring row are dropped;
// those at the line's own start or end stay.
func sliceDecorations(decorations []LineDecoration, start, end int, continues bool) []LineDecoration {
	if len(decorations) == 0 {
		return nil
	}
	startColumn := start + 1
	endColumn := end + 1
	length := end - start

	var result []LineDecoration
	for _, d := range decorations {
		if d.StartColumn == d.EndColumn {
			if d.StartColumn < startColumn || d.StartColumn > endColumn ||
				(d.StartColumn == startColumn && start > 0) ||
				(d.StartColumn == endColumn && continues) {
				continue
			}
		} else if d.EndColumn <= startColumn || d.StartColumn >= endColumn {
			continue
		}
		result = append(result, NewLineDecoration(
			max(1, d.StartColumn-startColumn+1),
			min(length+1, d.EndColumn-startColumn+1),
			d.ClassName,
			d.Type,
		))
	}
	return result
}

func sliceSelections(selections []OffsetRange, start, end int) []OffsetRange {
	if selections == nil {
		return nil
	}
	result := []OffsetRange{}
	for _, s := range selections {
		from, to := max(s.Start, start), min(s.End, end)
		if from < to {
			result = append(result, OffsetRange{Start: from - start, End: to - start})
		}
	}
	return result
}
