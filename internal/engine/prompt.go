package engine

// LLM prompt templates — data only, no logic.

// ExtractSystemPrompt sets the extractor role for every extraction call.
const ExtractSystemPrompt = `You are an expert recipe extractor. Extract structured recipe data from cooking video transcripts. Always use snake_case for JSON keys. Respond with valid JSON only.`

// ExtractPrompt asks the model for every recipe it can find in a transcript.
// Args: current date, video title, video URL, upload date, truncated description,
// known-recipes section (may be empty), timestamped transcript.
const ExtractPrompt = `Extract ALL structured recipes from this cooking video transcript.
A single video may demonstrate several dishes; return each as a separate recipe.

Current date: %s
Video Title: %s
Video URL: %s
Upload Date: %s
Description: %s

The transcript lines are prefixed with [MM:SS] time markers. For every
instruction step, set timestamp_seconds and end_time_seconds from the markers
nearest to where that step is demonstrated.

%sReturn ONLY a valid JSON object with this exact structure:
{
  "has_recipe": true,
  "recipes": [
    {
      "title": "Recipe Name",
      "description": "Brief description of the dish",
      "servings": 4,
      "dietary_tags": ["vegetarian", "gluten-free option"],
      "ingredients": [
        {"item": "ingredient name", "quantity": "2", "unit": "cups", "notes": "optional preparation notes"}
      ],
      "instructions": [
        {
          "step": 1,
          "text": "Detailed instruction text",
          "timestamp_seconds": 95,
          "end_time_seconds": 140,
          "notes": "optional tip for this step",
          "keywords": {
            "ingredients": ["ingredient1"],
            "techniques": ["sear", "fold"],
            "equipment": ["skillet"]
          }
        }
      ]
    }
  ]
}

Rules:
- step numbers start at 1 and are contiguous within each recipe
- timestamp_seconds must not exceed end_time_seconds
- If the video contains NO recipe (interview, Q&A, non-cooking content), respond with {"has_recipe": false}

Transcript:
%s`

// knownRecipesSection is injected into ExtractPrompt on continuation passes.
// Args: newline-joined list of known titles.
const knownRecipesSection = `The following recipes were already extracted from this video.
Do NOT re-emit them; return only recipes not in this list (or an empty
"recipes" array if there are none):
%s

`
